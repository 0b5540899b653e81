package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/cart/domain"
	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// GetCartHandler handles the cart read.
type GetCartHandler struct {
	carts    domain.Repository
	products productdomain.Repository
}

// NewGetCartHandler creates a new get cart handler
func NewGetCartHandler(carts domain.Repository, products productdomain.Repository) *GetCartHandler {
	return &GetCartHandler{carts: carts, products: products}
}

// Handle builds the cart state: rows are validated leniently, product
// joins that fail to resolve degrade to absent relations, and the total
// is recomputed from the resolved lines.
func (h *GetCartHandler) Handle(userID string) (*domain.CartState, error) {
	rows, err := h.carts.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}

	byID := make(map[string]productdomain.ProductRow)
	if len(ids) > 0 {
		productRows, err := h.products.FindByIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart products: %w", err)
		}
		for _, p := range productRows {
			byID[p.ID] = p
		}
	}

	state := &domain.CartState{Items: make([]domain.CartItem, 0, len(rows))}
	for i := range rows {
		row := rows[i]
		if err := schema.Validate(&row, schema.Lenient); err != nil {
			return nil, err
		}

		var product *productdomain.Product
		if pRow, ok := byID[row.ProductID]; ok {
			p := pRow.ToProduct(nil)
			product = &p
		}
		state.Items = append(state.Items, row.ToCartItem(product))
	}

	state.Total = state.ComputedTotal()
	if err := schema.Validate(state, schema.Lenient); err != nil {
		return nil, err
	}
	return state, nil
}
