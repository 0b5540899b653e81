package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/order/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// ListOrdersHandler handles paged order listings, either for one user or
// across all users for staff views.
type ListOrdersHandler struct {
	orders domain.Repository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders domain.Repository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle lists orders; userID empty means all users.
func (h *ListOrdersHandler) Handle(userID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows []domain.OrderRow
		err  error
	)
	if userID != "" {
		rows, err = h.orders.FindByUser(userID, limit, offset)
	} else {
		rows, err = h.orders.FindAll(limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if err := schema.Validate(&row, schema.Lenient); err != nil {
			return nil, err
		}
		orders = append(orders, row.ToOrder())
	}
	return orders, nil
}
