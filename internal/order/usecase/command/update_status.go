package command

import (
	"fmt"
	"time"

	"github.com/farmstand/backend/internal/order/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// UpdateStatusHandler handles the order status-update command.
type UpdateStatusHandler struct {
	orders domain.Repository
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(orders domain.Repository) *UpdateStatusHandler {
	return &UpdateStatusHandler{orders: orders}
}

// Handle validates the status against the enumeration and stamps the
// update.
func (h *UpdateStatusHandler) Handle(id string, req domain.UpdateOrderStatusRequest) (*domain.Order, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	if err := h.orders.UpdateStatus(id, req.Status, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	row, err := h.orders.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated order: %w", err)
	}
	view := row.ToOrder()
	return &view, nil
}
