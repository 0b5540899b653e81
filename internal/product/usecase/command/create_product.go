package command

import (
	"fmt"
	"time"

	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// CreateProductHandler handles the admin create-product command.
type CreateProductHandler struct {
	repo domain.Repository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.Repository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle validates the request strictly, prepares the insert row, and
// returns the stored product as a view-model.
func (h *CreateProductHandler) Handle(req domain.AdminCreateProductRequest) (*domain.Product, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	row := domain.PrepareProductForInsert(req, time.Now())
	if err := h.repo.Insert(row); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	stored, err := h.repo.FindByID(row["id"].(string))
	if err != nil {
		return nil, fmt.Errorf("failed to load created product: %w", err)
	}

	var category *domain.CategoryRow
	if stored.CategoryID != nil {
		category, _ = h.repo.FindCategoryByID(*stored.CategoryID)
	}

	product := stored.ToProduct(category)
	return &product, nil
}
