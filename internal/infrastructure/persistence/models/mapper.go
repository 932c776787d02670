package models

import (
	"github.com/stockroom/backend/internal/domain/shared"
)

// funcMapper adapts a pair of conversion functions to shared.Mapper and
// guards both directions against nil.
type funcMapper[U any, L any] struct {
	toUpper func(*L) *U
	toLower func(*U) *L
}

// NewMapper builds a nil-safe Mapper from two conversion functions.
func NewMapper[U any, L any](toUpper func(*L) *U, toLower func(*U) *L) shared.Mapper[U, L] {
	return funcMapper[U, L]{toUpper: toUpper, toLower: toLower}
}

func (m funcMapper[U, L]) ToUpper(lower *L) *U {
	if lower == nil {
		return nil
	}
	return m.toUpper(lower)
}

func (m funcMapper[U, L]) ToLower(upper *U) *L {
	if upper == nil {
		return nil
	}
	return m.toLower(upper)
}

var (
	UserMapper         = NewMapper((*UserModel).ToDomain, UserModelFromDomain)
	RoleMapper         = NewMapper((*RoleModel).ToDomain, RoleModelFromDomain)
	UserRoleMapper     = NewMapper((*UserRoleModel).ToDomain, UserRoleModelFromDomain)
	RefreshTokenMapper = NewMapper((*RefreshTokenModel).ToDomain, RefreshTokenModelFromDomain)

	ProductMapper     = NewMapper((*ProductModel).ToDomain, ProductModelFromDomain)
	StorageRoomMapper = NewMapper((*StorageRoomModel).ToDomain, StorageRoomModelFromDomain)
	SupplierMapper    = NewMapper((*SupplierModel).ToDomain, SupplierModelFromDomain)
	StockActionMapper = NewMapper((*StockActionModel).ToDomain, StockActionModelFromDomain)
)

// All returns every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&RoleModel{},
		&UserRoleModel{},
		&RefreshTokenModel{},
		&StorageRoomModel{},
		&SupplierModel{},
		&ProductModel{},
		&StockActionModel{},
	}
}
