package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// GetItemHandler handles the single inventory item read.
type GetItemHandler struct {
	inventory domain.Repository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(inventory domain.Repository) *GetItemHandler {
	return &GetItemHandler{inventory: inventory}
}

// Handle loads one item and transforms it to the view-model with its
// derived fields.
func (h *GetItemHandler) Handle(id string) (*domain.InventoryItem, error) {
	row, err := h.inventory.FindItemByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}

	if err := schema.Validate(row, schema.Lenient); err != nil {
		return nil, err
	}

	item := row.ToInventoryItem()
	return &item, nil
}
