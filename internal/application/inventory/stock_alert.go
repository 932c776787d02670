package inventory

import (
	"context"

	"github.com/stockroom/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// Stock alert types
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
)

// StockAlert is raised when a stock movement takes a product from above its
// threshold to at or below it
type StockAlert struct {
	UserID          string `json:"user_id"`
	ProductID       string `json:"product_id"`
	SKU             string `json:"sku"`
	CurrentQuantity string `json:"current_quantity"`
	MinimumQuantity string `json:"minimum_quantity"`
	Unit            string `json:"unit"`
	AlertType       string `json:"alert_type"`
}

// StockAlertNotifier delivers stock alerts. Delivery happens after the
// movement committed; a failed delivery does not undo it.
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// LogAlertNotifier writes alerts to the log
type LogAlertNotifier struct {
	logger *zap.Logger
}

// NewLogAlertNotifier creates a notifier that logs at warn level
func NewLogAlertNotifier(logger *zap.Logger) *LogAlertNotifier {
	return &LogAlertNotifier{logger: logger}
}

func (n *LogAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("Stock below threshold",
		zap.String("user_id", alert.UserID),
		zap.String("product_id", alert.ProductID),
		zap.String("sku", alert.SKU),
		zap.String("current_quantity", alert.CurrentQuantity),
		zap.String("minimum_quantity", alert.MinimumQuantity),
		zap.String("unit", alert.Unit),
		zap.String("alert_type", alert.AlertType))
	return nil
}

// thresholdCrossed reports whether the move from wasLow to p's current state
// should raise an alert, and which one
func thresholdCrossed(wasLow bool, p *inventory.Product) (StockAlert, bool) {
	if wasLow || !p.IsLowStock() {
		return StockAlert{}, false
	}
	alertType := AlertLowStock
	if p.Quantity.IsZero() {
		alertType = AlertOutOfStock
	}
	return StockAlert{
		UserID:          p.UserID.String(),
		ProductID:       p.ID.String(),
		SKU:             p.SKU,
		CurrentQuantity: p.Quantity.String(),
		MinimumQuantity: p.MinQuantity.String(),
		Unit:            p.Unit,
		AlertType:       alertType,
	}, true
}
