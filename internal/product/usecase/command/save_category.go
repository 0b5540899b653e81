package command

import (
	"fmt"
	"time"

	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// SaveCategoryHandler handles admin category create and update commands.
type SaveCategoryHandler struct {
	repo domain.Repository
}

// NewSaveCategoryHandler creates a new save category handler
func NewSaveCategoryHandler(repo domain.Repository) *SaveCategoryHandler {
	return &SaveCategoryHandler{repo: repo}
}

// Create validates the request and inserts a new category.
func (h *SaveCategoryHandler) Create(req domain.AdminCreateCategoryRequest) (*domain.Category, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	row := domain.PrepareCategoryForInsert(req, time.Now())
	if err := h.repo.InsertCategory(row); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	stored, err := h.repo.FindCategoryByID(row["id"].(string))
	if err != nil {
		return nil, fmt.Errorf("failed to load created category: %w", err)
	}

	category := stored.ToCategory()
	return &category, nil
}

// Update validates the request and applies only the provided columns.
func (h *SaveCategoryHandler) Update(id string, req domain.AdminUpdateCategoryRequest) (*domain.Category, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	cols := domain.PrepareCategoryForUpdate(req, time.Now())
	if err := h.repo.UpdateCategoryColumns(id, cols); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	stored, err := h.repo.FindCategoryByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated category: %w", err)
	}

	category := stored.ToCategory()
	return &category, nil
}
