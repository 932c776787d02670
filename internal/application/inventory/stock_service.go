package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService records stock movements. Each movement is a journal entry
// plus a quantity change on the product, committed together.
type StockService struct {
	openUoW  UnitOfWorkFactory
	notifier StockAlertNotifier
	logger   *zap.Logger
	now      func() time.Time
	opts     []appshared.ServiceOption
}

// NewStockService creates a new stock service. A nil notifier logs alerts.
func NewStockService(openUoW UnitOfWorkFactory, notifier StockAlertNotifier, logger *zap.Logger, opts ...appshared.ServiceOption) *StockService {
	if notifier == nil {
		notifier = NewLogAlertNotifier(logger)
	}
	return &StockService{
		openUoW:  openUoW,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		opts:     opts,
	}
}

// Record applies one movement to a product of userID. The movement's unit is
// converted to the product's unit first; a pair the conversion table lacks
// fails with ErrUnsupportedConversion and an outgoing movement larger than
// the stock on hand with ErrInsufficientStock. A product changed by another
// transaction after it was read fails with ErrConflict and can be retried.
// Nothing is written on failure.
func (s *StockService) Record(ctx context.Context, userID uuid.UUID, input RecordStockInput) (*RecordStockResult, error) {
	if err := appshared.ValidateInput(input); err != nil {
		return nil, err
	}
	scope := shared.ScopedTo(userID)
	performedAt := input.PerformedAt
	if performedAt.IsZero() {
		performedAt = s.now()
	}

	var alert *StockAlert
	result, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (*RecordStockResult, error) {
		product, err := findProduct(ctx, uow, input.ProductID, scope)
		if err != nil {
			return nil, err
		}
		unit := input.Unit
		if unit == "" {
			unit = product.Unit
		}
		action, err := inventory.NewStockAction(userID, product.ID, inventory.StockActionKind(input.Kind),
			input.Quantity, unit, input.Note, performedAt.UTC())
		if err != nil {
			return nil, err
		}

		wasLow := product.IsLowStock()
		if err := action.ApplyTo(product); err != nil {
			return nil, err
		}
		if err := stockActions(uow, s.opts...).Add(ctx, action, scope); err != nil {
			return nil, err
		}
		updated, err := products(uow, s.opts...).Update(ctx, product, scope)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product not found")
		}
		if a, ok := thresholdCrossed(wasLow, updated); ok {
			alert = &a
		}
		return &RecordStockResult{
			Action:  toStockActionResponse(action),
			Product: toProductResponse(updated),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock recorded",
		zap.String("product_id", result.Product.ID.String()),
		zap.String("kind", result.Action.Kind),
		zap.String("quantity", result.Action.Quantity.String()),
		zap.String("unit", result.Action.Unit))

	if alert != nil {
		if err := s.notifier.SendAlert(ctx, *alert); err != nil {
			s.logger.Error("Failed to send stock alert", zap.Error(err))
		}
	}
	return result, nil
}

// History lists a product's movements, oldest first
func (s *StockService) History(ctx context.Context, userID, productID uuid.UUID) ([]StockActionResponse, error) {
	scope := shared.ScopedTo(userID)
	return appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) ([]StockActionResponse, error) {
		if _, err := findProduct(ctx, uow, productID, scope); err != nil {
			return nil, err
		}
		journal, err := uow.StockActions().ForProduct(ctx, productID, scope)
		if err != nil {
			return nil, err
		}
		out := make([]StockActionResponse, 0, len(journal))
		for _, a := range journal {
			out = append(out, toStockActionResponse(a))
		}
		return out, nil
	})
}
