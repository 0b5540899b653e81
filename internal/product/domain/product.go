package domain

import (
	"errors"
	"time"

	"github.com/farmstand/backend/pkg/schema"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrExceedsStock       = errors.New("quantity exceeds available stock")
)

// ProductRow is the raw products table shape. Nullability mirrors the
// actual columns: many logically-required fields still allow NULL in the
// database and must default during transformation, not fail.
type ProductRow struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	Name                string     `json:"name" gorm:"not null" validate:"required,max=255"`
	Description         *string    `json:"description"`
	Price               float64    `json:"price" gorm:"not null" validate:"gte=0"`
	StockQuantity       *int       `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID          *string    `json:"category_id" gorm:"type:uuid;index" validate:"omitempty,uuid"`
	ImageURL            *string    `json:"image_url"`
	IsAvailable         *bool      `json:"is_available"`
	IsPreOrder          *bool      `json:"is_pre_order"`
	MinPreOrderQuantity *int       `json:"min_pre_order_quantity" validate:"omitempty,gte=1"`
	MaxPreOrderQuantity *int       `json:"max_pre_order_quantity" validate:"omitempty,gte=1"`
	CreatedAt           *time.Time `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (ProductRow) TableName() string {
	return "products"
}

// Product is the application view-model: camelCase fields, defaults
// applied for nullable columns, category resolved from an optional join.
type Product struct {
	ID                  string                    `json:"id"`
	Name                string                    `json:"name"`
	Description         string                    `json:"description"`
	Price               float64                   `json:"price"`
	StockQuantity       *int                      `json:"stockQuantity"`
	ImageURL            string                    `json:"imageUrl,omitempty"`
	IsAvailable         bool                      `json:"isAvailable"`
	IsPreOrder          bool                      `json:"isPreOrder"`
	MinPreOrderQuantity *int                      `json:"minPreOrderQuantity,omitempty"`
	MaxPreOrderQuantity *int                      `json:"maxPreOrderQuantity,omitempty"`
	Category            schema.Relation[Category] `json:"category"`
	CreatedAt           *time.Time                `json:"createdAt"`
	UpdatedAt           *time.Time                `json:"updatedAt"`
}

// ToProduct transforms a validated row into the view-model. The category
// join is optional: an absent join becomes an explicit null, never an
// error. Pure and deterministic, no I/O.
func (r *ProductRow) ToProduct(category *CategoryRow) Product {
	p := Product{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         derefString(r.Description),
		Price:               r.Price,
		StockQuantity:       r.StockQuantity,
		ImageURL:            derefString(r.ImageURL),
		IsAvailable:         derefBool(r.IsAvailable, true),
		IsPreOrder:          derefBool(r.IsPreOrder, false),
		MinPreOrderQuantity: r.MinPreOrderQuantity,
		MaxPreOrderQuantity: r.MaxPreOrderQuantity,
		Category:            schema.Absent[Category](),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if category != nil {
		p.Category = schema.Present(category.ToCategory())
	}
	return p
}

// CanAddToCart enforces the add-to-cart rules: unavailable products are
// rejected outright; a non-null stock quantity is a hard ceiling on the
// requested quantity; a null stock quantity means no ceiling.
func (p *Product) CanAddToCart(quantity int) error {
	if !p.IsAvailable {
		return ErrProductUnavailable
	}
	if p.StockQuantity != nil && quantity > *p.StockQuantity {
		return ErrExceedsStock
	}
	return nil
}

// Repository defines the contract for product data access
type Repository interface {
	Insert(row map[string]any) error
	UpdateColumns(id string, cols map[string]any) error
	FindByID(id string) (*ProductRow, error)
	FindByIDs(ids []string) ([]ProductRow, error)
	FindAll(limit, offset int) ([]ProductRow, error)
	FindByCategory(categoryID string, limit, offset int) ([]ProductRow, error)
	Delete(id string) error
	Count() (int64, error)

	InsertCategory(row map[string]any) error
	UpdateCategoryColumns(id string, cols map[string]any) error
	FindCategoryByID(id string) (*CategoryRow, error)
	FindAllCategories() ([]CategoryRow, error)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func derefFloat(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}

func derefInt(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}
