package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// ListMovementsHandler handles the movement history read for one item.
type ListMovementsHandler struct {
	inventory domain.Repository
}

// NewListMovementsHandler creates a new list movements handler
func NewListMovementsHandler(inventory domain.Repository) *ListMovementsHandler {
	return &ListMovementsHandler{inventory: inventory}
}

// Handle lists the audit trail newest-first.
func (h *ListMovementsHandler) Handle(itemID string, limit, offset int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.inventory.ListMovements(itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}

	movements := make([]domain.StockMovement, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if err := schema.Validate(&row, schema.Lenient); err != nil {
			return nil, err
		}
		movements = append(movements, row.ToStockMovement())
	}
	return movements, nil
}
