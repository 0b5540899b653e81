package command

import (
	"fmt"
	"time"

	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// UpdateProductHandler handles the admin partial-update command.
type UpdateProductHandler struct {
	repo domain.Repository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.Repository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle validates strictly, prepares only the provided columns plus the
// updated_at stamp, and returns the updated view-model.
func (h *UpdateProductHandler) Handle(id string, req domain.AdminUpdateProductRequest) (*domain.Product, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	cols := domain.PrepareProductForUpdate(req, time.Now())
	if err := h.repo.UpdateColumns(id, cols); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	stored, err := h.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated product: %w", err)
	}

	var category *domain.CategoryRow
	if stored.CategoryID != nil {
		category, _ = h.repo.FindCategoryByID(*stored.CategoryID)
	}

	product := stored.ToProduct(category)
	return &product, nil
}
