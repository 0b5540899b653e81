package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// ListItemsHandler handles paged inventory listings with an optional
// stock-status filter.
type ListItemsHandler struct {
	inventory domain.Repository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(inventory domain.Repository) *ListItemsHandler {
	return &ListItemsHandler{inventory: inventory}
}

// Handle lists items; status filters on the derived stock status, so it
// is applied after transformation rather than in SQL.
func (h *ListItemsHandler) Handle(status domain.StockStatus, limit, offset int) ([]domain.InventoryItem, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.inventory.FindAllItems(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}

	items := make([]domain.InventoryItem, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if err := schema.Validate(&row, schema.Lenient); err != nil {
			return nil, err
		}
		item := row.ToInventoryItem()
		if status != "" && item.StockStatus != status {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
