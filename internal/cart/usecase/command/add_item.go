package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmstand/backend/internal/cart/domain"
	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// AddItemHandler handles the add-to-cart command.
type AddItemHandler struct {
	carts    domain.Repository
	products productdomain.Repository
}

// NewAddItemHandler creates a new add item handler
func NewAddItemHandler(carts domain.Repository, products productdomain.Repository) *AddItemHandler {
	return &AddItemHandler{carts: carts, products: products}
}

// Handle validates the request strictly, enforces the availability and
// stock-ceiling rules against the combined cart quantity, and upserts
// the cart row.
func (h *AddItemHandler) Handle(userID string, req domain.AddToCartRequest) (*domain.CartItem, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	row, err := h.products.FindByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if err := schema.Validate(row, schema.Lenient); err != nil {
		return nil, err
	}
	product := row.ToProduct(nil)

	existing, err := h.carts.FindByUserAndProduct(userID, req.ProductID)
	if err != nil && !errors.Is(err, domain.ErrCartItemNotFound) {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	requested := req.Quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if err := product.CanAddToCart(requested); err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		if err := h.carts.UpdateQuantity(existing.ID, requested, now); err != nil {
			return nil, fmt.Errorf("failed to update cart quantity: %w", err)
		}
		existing.Quantity = requested
		existing.UpdatedAt = &now
		item := existing.ToCartItem(&product)
		return &item, nil
	}

	newRow := &domain.CartItemRow{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	if err := h.carts.Insert(newRow); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	item := newRow.ToCartItem(&product)
	return &item, nil
}
