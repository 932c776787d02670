package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_user_sku,priority:1"`
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex:idx_products_user_sku,priority:2"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	StorageRoomID *uuid.UUID      `gorm:"type:uuid;index"`
	Version       int64           `gorm:"not null"`
	AuditModel
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) GetID() uuid.UUID       { return m.ID }
func (m *ProductModel) SetID(id uuid.UUID)     { m.ID = id }
func (m *ProductModel) GetUserID() uuid.UUID   { return m.UserID }
func (m *ProductModel) SetUserID(id uuid.UUID) { m.UserID = id }
func (m *ProductModel) GetVersion() int64      { return m.Version }
func (m *ProductModel) SetVersion(v int64)     { m.Version = v }

func (m *ProductModel) ToDomain() *inventory.Product {
	return &inventory.Product{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		SKU:           m.SKU,
		Unit:          m.Unit,
		Quantity:      m.Quantity,
		MinQuantity:   m.MinQuantity,
		SupplierID:    m.SupplierID,
		StorageRoomID: m.StorageRoomID,
		Version:       m.Version,
		AuditMeta:     m.AuditModel.ToDomain(),
	}
}

func ProductModelFromDomain(p *inventory.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		UserID:        p.UserID,
		Name:          p.Name,
		SKU:           p.SKU,
		Unit:          p.Unit,
		Quantity:      p.Quantity,
		MinQuantity:   p.MinQuantity,
		SupplierID:    p.SupplierID,
		StorageRoomID: p.StorageRoomID,
		Version:       p.Version,
		AuditModel:    AuditFromDomain(p.AuditMeta),
	}
}

// StorageRoomModel is the persistence model for the StorageRoom domain entity.
type StorageRoomModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	AuditModel
}

func (StorageRoomModel) TableName() string { return "storage_rooms" }

func (m *StorageRoomModel) GetID() uuid.UUID       { return m.ID }
func (m *StorageRoomModel) SetID(id uuid.UUID)     { m.ID = id }
func (m *StorageRoomModel) GetUserID() uuid.UUID   { return m.UserID }
func (m *StorageRoomModel) SetUserID(id uuid.UUID) { m.UserID = id }

func (m *StorageRoomModel) ToDomain() *inventory.StorageRoom {
	return &inventory.StorageRoom{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Description: m.Description,
		AuditMeta:   m.AuditModel.ToDomain(),
	}
}

func StorageRoomModelFromDomain(r *inventory.StorageRoom) *StorageRoomModel {
	return &StorageRoomModel{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		AuditModel:  AuditFromDomain(r.AuditMeta),
	}
}

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(200);not null"`
	Email   string    `gorm:"type:varchar(200);not null;default:''"`
	Phone   string    `gorm:"type:varchar(50);not null;default:''"`
	Address string    `gorm:"type:text;not null;default:''"`
	AuditModel
}

func (SupplierModel) TableName() string { return "suppliers" }

func (m *SupplierModel) GetID() uuid.UUID       { return m.ID }
func (m *SupplierModel) SetID(id uuid.UUID)     { m.ID = id }
func (m *SupplierModel) GetUserID() uuid.UUID   { return m.UserID }
func (m *SupplierModel) SetUserID(id uuid.UUID) { m.UserID = id }

func (m *SupplierModel) ToDomain() *inventory.Supplier {
	return &inventory.Supplier{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		AuditMeta: m.AuditModel.ToDomain(),
	}
}

func SupplierModelFromDomain(s *inventory.Supplier) *SupplierModel {
	return &SupplierModel{
		ID:         s.ID,
		UserID:     s.UserID,
		Name:       s.Name,
		Email:      s.Email,
		Phone:      s.Phone,
		Address:    s.Address,
		AuditModel: AuditFromDomain(s.AuditMeta),
	}
}

// StockActionModel is the persistence model for stock journal entries.
type StockActionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        string          `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Note        string          `gorm:"type:text;not null;default:''"`
	PerformedAt time.Time       `gorm:"not null;index"`
	AuditModel
}

func (StockActionModel) TableName() string { return "stock_actions" }

func (m *StockActionModel) GetID() uuid.UUID       { return m.ID }
func (m *StockActionModel) SetID(id uuid.UUID)     { m.ID = id }
func (m *StockActionModel) GetUserID() uuid.UUID   { return m.UserID }
func (m *StockActionModel) SetUserID(id uuid.UUID) { m.UserID = id }

func (m *StockActionModel) ToDomain() *inventory.StockAction {
	return &inventory.StockAction{
		ID:          m.ID,
		UserID:      m.UserID,
		ProductID:   m.ProductID,
		Kind:        inventory.StockActionKind(m.Kind),
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Note:        m.Note,
		PerformedAt: m.PerformedAt,
		AuditMeta:   m.AuditModel.ToDomain(),
	}
}

func StockActionModelFromDomain(a *inventory.StockAction) *StockActionModel {
	return &StockActionModel{
		ID:          a.ID,
		UserID:      a.UserID,
		ProductID:   a.ProductID,
		Kind:        string(a.Kind),
		Quantity:    a.Quantity,
		Unit:        a.Unit,
		Note:        a.Note,
		PerformedAt: a.PerformedAt,
		AuditModel:  AuditFromDomain(a.AuditMeta),
	}
}
