package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// ListCategoriesHandler handles the category listing.
type ListCategoriesHandler struct {
	repo domain.Repository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(repo domain.Repository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

// Handle lists all categories as view-models.
func (h *ListCategoriesHandler) Handle() ([]domain.Category, error) {
	rows, err := h.repo.FindAllCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if err := schema.Validate(&row, schema.Lenient); err != nil {
			return nil, err
		}
		categories = append(categories, row.ToCategory())
	}
	return categories, nil
}
