package persistence

import (
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OwnerColumn is the column holding the owner of Ownable records
const OwnerColumn = "user_id"

// OwnerScope applies the owner filter of a scoped call to a GORM query.
// Unscoped calls leave the query untouched.
func OwnerScope[K comparable](scope shared.Scope[K]) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		userID, ok := scope.UserID()
		if !ok {
			return db
		}
		return db.Where(OwnerColumn+" = ?", userID)
	}
}
