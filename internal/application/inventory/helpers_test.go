package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []StockAlert
}

func (n *recordingNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

type fixture struct {
	open     UnitOfWorkFactory
	products *ProductService
	rooms    *StorageRoomService
	supplies *SupplierService
	stock    *StockService
	alerts   *recordingNotifier
}

// newFixture wires the services to a migrated in-memory sqlite database
// with a single connection.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(context.Background()))

	open := func(ctx context.Context) (UnitOfWork, error) {
		uow, err := db.UnitOfWork(ctx)
		if err != nil {
			return nil, err
		}
		return uow, nil
	}
	logger := zap.NewNop()
	alerts := &recordingNotifier{}
	return &fixture{
		open:     open,
		products: NewProductService(open, logger),
		rooms:    NewStorageRoomService(open, logger),
		supplies: NewSupplierService(open, logger),
		stock:    NewStockService(open, alerts, logger),
		alerts:   alerts,
	}
}

func (f *fixture) product(t *testing.T, owner uuid.UUID, sku, unit string) *ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), owner, ProductInput{Name: "Item " + sku, SKU: sku, Unit: unit})
	require.NoError(t, err)
	return p
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
