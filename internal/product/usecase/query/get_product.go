package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// GetProductHandler handles the single-product read.
type GetProductHandler struct {
	repo domain.Repository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.Repository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle runs the read pipeline: raw row, lenient validation, transform.
// An unresolvable category join degrades to an explicit null category.
func (h *GetProductHandler) Handle(id string) (*domain.Product, error) {
	row, err := h.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if err := schema.Validate(row, schema.Lenient); err != nil {
		return nil, err
	}

	var category *domain.CategoryRow
	if row.CategoryID != nil {
		category, _ = h.repo.FindCategoryByID(*row.CategoryID)
	}

	product := row.ToProduct(category)
	return &product, nil
}
