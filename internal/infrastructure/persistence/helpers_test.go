package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestDB opens a migrated in-memory sqlite database. It is limited to one
// connection, so a unit of work and direct queries must not overlap.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestUser(t *testing.T, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(uuid.Nil, email, "Test", "User", "password123")
	require.NoError(t, err)
	u.StampCreated("test", testTime)
	return u
}

func newTestProduct(t *testing.T, owner uuid.UUID, name, sku string) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct(owner, name, sku, "kg")
	require.NoError(t, err)
	p.StampCreated("test", testTime)
	return p
}

func newTestRoom(t *testing.T, owner uuid.UUID, name string) *inventory.StorageRoom {
	t.Helper()
	r, err := inventory.NewStorageRoom(owner, name, "")
	require.NoError(t, err)
	r.StampCreated("test", testTime)
	return r
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var bg = context.Background()
