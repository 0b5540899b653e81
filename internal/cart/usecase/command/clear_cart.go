package command

import (
	"fmt"

	"github.com/farmstand/backend/internal/cart/domain"
)

// ClearCartHandler handles the explicit cart clear.
type ClearCartHandler struct {
	carts domain.Repository
}

// NewClearCartHandler creates a new clear cart handler
func NewClearCartHandler(carts domain.Repository) *ClearCartHandler {
	return &ClearCartHandler{carts: carts}
}

// Handle removes every item in the user's cart.
func (h *ClearCartHandler) Handle(userID string) error {
	if err := h.carts.ClearUser(userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
