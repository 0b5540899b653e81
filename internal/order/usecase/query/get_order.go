package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/order/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// GetOrderHandler handles the single-order read.
type GetOrderHandler struct {
	orders domain.Repository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orders domain.Repository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle runs the lenient read pipeline so a stale row with a broken
// arithmetic invariant is logged, not fatal.
func (h *GetOrderHandler) Handle(id string) (*domain.Order, error) {
	row, err := h.orders.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := schema.Validate(row, schema.Lenient); err != nil {
		return nil, err
	}

	view := row.ToOrder()
	return &view, nil
}
