package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// ListAlertsHandler handles the active-alerts read.
type ListAlertsHandler struct {
	inventory domain.Repository
}

// NewListAlertsHandler creates a new list alerts handler
func NewListAlertsHandler(inventory domain.Repository) *ListAlertsHandler {
	return &ListAlertsHandler{inventory: inventory}
}

// Handle lists unresolved alerts.
func (h *ListAlertsHandler) Handle(limit, offset int) ([]domain.InventoryAlertRow, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.inventory.ListActiveAlerts(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	for i := range rows {
		if err := schema.Validate(&rows[i], schema.Lenient); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
