package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/farmstand/backend/pkg/schema"
)

// AdminCreateProductRequest is the admin-facing create payload.
type AdminCreateProductRequest struct {
	Name                string  `json:"name" validate:"required,min=1,max=255"`
	Description         *string `json:"description" validate:"omitempty,max=2000"`
	Price               float64 `json:"price" validate:"gte=0"`
	StockQuantity       *int    `json:"stockQuantity" validate:"omitempty,gte=0"`
	CategoryID          *string `json:"categoryId" validate:"omitempty,uuid"`
	ImageURL            *string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	IsAvailable         *bool   `json:"isAvailable"`
	IsPreOrder          bool    `json:"isPreOrder"`
	MinPreOrderQuantity *int    `json:"minPreOrderQuantity" validate:"omitempty,gte=1"`
	MaxPreOrderQuantity *int    `json:"maxPreOrderQuantity" validate:"omitempty,gte=1"`
}

// AdminUpdateProductRequest is the admin-facing partial update payload.
// Every field is optional; absent fields never touch their columns.
type AdminUpdateProductRequest struct {
	Name                *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description         *string  `json:"description" validate:"omitempty,max=2000"`
	Price               *float64 `json:"price" validate:"omitempty,gte=0"`
	StockQuantity       *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
	CategoryID          *string  `json:"categoryId" validate:"omitempty,uuid"`
	ImageURL            *string  `json:"imageUrl" validate:"omitempty,url,max=2048"`
	IsAvailable         *bool    `json:"isAvailable"`
	IsPreOrder          *bool    `json:"isPreOrder"`
	MinPreOrderQuantity *int     `json:"minPreOrderQuantity" validate:"omitempty,gte=1"`
	MaxPreOrderQuantity *int     `json:"maxPreOrderQuantity" validate:"omitempty,gte=1"`
}

// AdminCreateCategoryRequest is the admin-facing category create payload.
type AdminCreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,gte=0"`
	IsAvailable *bool   `json:"isAvailable"`
}

// AdminUpdateCategoryRequest is the admin-facing category update payload.
type AdminUpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,gte=0"`
	IsAvailable *bool   `json:"isAvailable"`
}

func init() {
	schema.RegisterRefinement(preOrderCreateRefinement, AdminCreateProductRequest{})
	schema.RegisterRefinement(preOrderUpdateRefinement, AdminUpdateProductRequest{})
}

// A product marked pre-order must carry both pre-order bounds, and the
// minimum must not exceed the maximum. Each violated part fails the
// whole object.
func preOrderCreateRefinement(sl validator.StructLevel) {
	req := sl.Current().Interface().(AdminCreateProductRequest)
	if !req.IsPreOrder {
		return
	}
	reportPreOrderIssues(sl, req.MinPreOrderQuantity, req.MaxPreOrderQuantity)
}

func preOrderUpdateRefinement(sl validator.StructLevel) {
	req := sl.Current().Interface().(AdminUpdateProductRequest)
	if req.IsPreOrder == nil || !*req.IsPreOrder {
		return
	}
	reportPreOrderIssues(sl, req.MinPreOrderQuantity, req.MaxPreOrderQuantity)
}

func reportPreOrderIssues(sl validator.StructLevel, min, max *int) {
	if min == nil {
		sl.ReportError(min, "minPreOrderQuantity", "MinPreOrderQuantity", "required_with_pre_order", "")
	}
	if max == nil {
		sl.ReportError(max, "maxPreOrderQuantity", "MaxPreOrderQuantity", "required_with_pre_order", "")
	}
	if min != nil && max != nil && *min > *max {
		sl.ReportError(*min, "minPreOrderQuantity", "MinPreOrderQuantity", "pre_order_min_lte_max", "")
	}
}

// PrepareProductForInsert maps a validated create request to the exact
// snake_case insert shape, applying the same defaults as the create
// schema so column defaults are never relied on from two places.
func PrepareProductForInsert(req AdminCreateProductRequest, now time.Time) map[string]any {
	row := map[string]any{
		"id":           uuid.NewString(),
		"name":         req.Name,
		"price":        req.Price,
		"is_available": true,
		"is_pre_order": req.IsPreOrder,
		"created_at":   now,
		"updated_at":   now,
	}
	if req.IsAvailable != nil {
		row["is_available"] = *req.IsAvailable
	}
	if req.Description != nil {
		row["description"] = *req.Description
	}
	if req.StockQuantity != nil {
		row["stock_quantity"] = *req.StockQuantity
	}
	if req.CategoryID != nil {
		row["category_id"] = *req.CategoryID
	}
	if req.ImageURL != nil {
		row["image_url"] = *req.ImageURL
	}
	if req.MinPreOrderQuantity != nil {
		row["min_pre_order_quantity"] = *req.MinPreOrderQuantity
	}
	if req.MaxPreOrderQuantity != nil {
		row["max_pre_order_quantity"] = *req.MaxPreOrderQuantity
	}
	return row
}

// PrepareProductForUpdate maps a validated partial update to the exact
// snake_case update shape. Only explicitly provided fields appear, plus
// the updated_at stamp, so partial updates never overwrite unrelated
// columns.
func PrepareProductForUpdate(req AdminUpdateProductRequest, now time.Time) map[string]any {
	row := map[string]any{"updated_at": now}
	if req.Name != nil {
		row["name"] = *req.Name
	}
	if req.Description != nil {
		row["description"] = *req.Description
	}
	if req.Price != nil {
		row["price"] = *req.Price
	}
	if req.StockQuantity != nil {
		row["stock_quantity"] = *req.StockQuantity
	}
	if req.CategoryID != nil {
		row["category_id"] = *req.CategoryID
	}
	if req.ImageURL != nil {
		row["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		row["is_available"] = *req.IsAvailable
	}
	if req.IsPreOrder != nil {
		row["is_pre_order"] = *req.IsPreOrder
	}
	if req.MinPreOrderQuantity != nil {
		row["min_pre_order_quantity"] = *req.MinPreOrderQuantity
	}
	if req.MaxPreOrderQuantity != nil {
		row["max_pre_order_quantity"] = *req.MaxPreOrderQuantity
	}
	return row
}

// PrepareCategoryForInsert maps a validated category create request to
// the snake_case insert shape.
func PrepareCategoryForInsert(req AdminCreateCategoryRequest, now time.Time) map[string]any {
	row := map[string]any{
		"id":           uuid.NewString(),
		"name":         req.Name,
		"is_available": true,
		"sort_order":   0,
		"created_at":   now,
		"updated_at":   now,
	}
	if req.IsAvailable != nil {
		row["is_available"] = *req.IsAvailable
	}
	if req.SortOrder != nil {
		row["sort_order"] = *req.SortOrder
	}
	if req.Description != nil {
		row["description"] = *req.Description
	}
	if req.ImageURL != nil {
		row["image_url"] = *req.ImageURL
	}
	return row
}

// PrepareCategoryForUpdate maps a validated category update to the
// snake_case update shape, provided fields plus updated_at only.
func PrepareCategoryForUpdate(req AdminUpdateCategoryRequest, now time.Time) map[string]any {
	row := map[string]any{"updated_at": now}
	if req.Name != nil {
		row["name"] = *req.Name
	}
	if req.Description != nil {
		row["description"] = *req.Description
	}
	if req.ImageURL != nil {
		row["image_url"] = *req.ImageURL
	}
	if req.SortOrder != nil {
		row["sort_order"] = *req.SortOrder
	}
	if req.IsAvailable != nil {
		row["is_available"] = *req.IsAvailable
	}
	return row
}
