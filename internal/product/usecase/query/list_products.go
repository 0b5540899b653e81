package query

import (
	"fmt"

	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// ListProductsHandler handles paged product listings, optionally scoped
// to a category.
type ListProductsHandler struct {
	repo domain.Repository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.Repository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle lists products; categoryID empty means all categories.
func (h *ListProductsHandler) Handle(categoryID string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows []domain.ProductRow
		err  error
	)
	if categoryID != "" {
		rows, err = h.repo.FindByCategory(categoryID, limit, offset)
	} else {
		rows, err = h.repo.FindAll(limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	categories, err := h.repo.FindAllCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[string]domain.CategoryRow, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	products := make([]domain.Product, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if err := schema.Validate(&row, schema.Lenient); err != nil {
			return nil, err
		}
		var category *domain.CategoryRow
		if row.CategoryID != nil {
			if c, ok := byID[*row.CategoryID]; ok {
				category = &c
			}
		}
		products = append(products, row.ToProduct(category))
	}
	return products, nil
}
