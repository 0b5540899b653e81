package command

import (
	"fmt"

	"github.com/farmstand/backend/internal/cart/domain"
)

// RemoveItemHandler handles the remove-from-cart command.
type RemoveItemHandler struct {
	carts domain.Repository
}

// NewRemoveItemHandler creates a new remove item handler
func NewRemoveItemHandler(carts domain.Repository) *RemoveItemHandler {
	return &RemoveItemHandler{carts: carts}
}

// Handle removes one product from the user's cart.
func (h *RemoveItemHandler) Handle(userID, productID string) error {
	existing, err := h.carts.FindByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if err := h.carts.DeleteItem(existing.ID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}
