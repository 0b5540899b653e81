package command

import (
	"fmt"
	"time"

	"github.com/farmstand/backend/internal/cart/domain"
	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// UpdateItemHandler handles the cart quantity-update command.
type UpdateItemHandler struct {
	carts    domain.Repository
	products productdomain.Repository
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(carts domain.Repository, products productdomain.Repository) *UpdateItemHandler {
	return &UpdateItemHandler{carts: carts, products: products}
}

// Handle re-checks the stock ceiling against the new absolute quantity
// before writing.
func (h *UpdateItemHandler) Handle(userID, productID string, req domain.UpdateCartItemRequest) (*domain.CartItem, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	existing, err := h.carts.FindByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	row, err := h.products.FindByID(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	product := row.ToProduct(nil)

	if err := product.CanAddToCart(req.Quantity); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := h.carts.UpdateQuantity(existing.ID, req.Quantity, now); err != nil {
		return nil, fmt.Errorf("failed to update cart quantity: %w", err)
	}

	existing.Quantity = req.Quantity
	existing.UpdatedAt = &now
	item := existing.ToCartItem(&product)
	return &item, nil
}
