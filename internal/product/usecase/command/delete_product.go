package command

import (
	"fmt"

	"github.com/farmstand/backend/internal/product/domain"
)

// DeleteProductHandler handles the admin delete-product command.
type DeleteProductHandler struct {
	repo domain.Repository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.Repository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle removes the product.
func (h *DeleteProductHandler) Handle(id string) error {
	if id == "" {
		return fmt.Errorf("product id is required")
	}
	if err := h.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
