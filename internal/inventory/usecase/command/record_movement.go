package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/kafka"
	"github.com/farmstand/backend/pkg/logger"
	"github.com/farmstand/backend/pkg/schema"
)

// AlertPublisher publishes low-stock alert events.
type AlertPublisher interface {
	PublishLowStockAlert(ctx context.Context, event kafka.LowStockAlertEvent) error
}

// RecordMovementHandler handles the single atomic stock update.
type RecordMovementHandler struct {
	inventory domain.Repository
	publisher AlertPublisher
}

// NewRecordMovementHandler creates a new record movement handler. The
// publisher may be nil when messaging is disabled.
func NewRecordMovementHandler(inventory domain.Repository, publisher AlertPublisher) *RecordMovementHandler {
	return &RecordMovementHandler{inventory: inventory, publisher: publisher}
}

// Handle applies one stock update. Business outcomes — missing item,
// insufficient stock, lock contention — come back as a failed result
// with a message rather than an error; the error return is reserved for
// infrastructure failures and invalid requests.
func (h *RecordMovementHandler) Handle(ctx context.Context, req domain.StockUpdateRequest, performedBy string) (*domain.StockUpdateResult, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	result, alert, err := h.inventory.UpdateStockAtomic(req, performedBy)
	if err != nil {
		if isBusinessFailure(err) {
			return &domain.StockUpdateResult{
				ItemID:  req.ItemID,
				Success: false,
				Message: err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	if alert != nil && h.publisher != nil {
		h.publishAlert(ctx, req.ItemID, result.NewStock, alert)
	}

	return result, nil
}

func (h *RecordMovementHandler) publishAlert(ctx context.Context, itemID string, newStock int, alert *domain.InventoryAlertRow) {
	item, err := h.inventory.FindItemByID(itemID)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("item_id", itemID).Msg("Failed to load item for alert event")
		return
	}

	event := kafka.LowStockAlertEvent{
		AlertID:         alert.ID,
		InventoryItemID: itemID,
		ProductID:       item.ProductID,
		AlertType:       alert.AlertType,
		AvailableStock:  item.CurrentStock - item.ReservedStock,
		MinimumStock:    item.MinimumStock,
		Message:         alert.Message,
	}
	if err := h.publisher.PublishLowStockAlert(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("alert_id", alert.ID).Msg("Failed to publish low stock alert event")
	}
}

func isBusinessFailure(err error) bool {
	return errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrRowLocked)
}
