package domain

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartItemRow is the raw cart_items table shape.
type CartItemRow struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	UserID    string     `json:"user_id" gorm:"index;not null" validate:"required"`
	ProductID string     `json:"product_id" gorm:"type:uuid;not null" validate:"required"`
	Quantity  int        `json:"quantity" gorm:"not null" validate:"required,gte=1"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (CartItemRow) TableName() string {
	return "cart_items"
}

// CartItem pairs a hydrated product with a quantity. The product join is
// optional: a row whose product was not loaded carries an absent relation
// and the raw row under _dbData, so nothing is silently dropped.
type CartItem struct {
	Product  schema.Relation[productdomain.Product] `json:"product"`
	Quantity int                                    `json:"quantity"`
	DBData   CartItemRow                            `json:"_dbData"`
}

// ToCartItem transforms a validated row into the view-model. Pass nil for
// an unresolved product join.
func (r *CartItemRow) ToCartItem(p *productdomain.Product) CartItem {
	item := CartItem{
		Product:  schema.Absent[productdomain.Product](),
		Quantity: r.Quantity,
		DBData:   *r,
	}
	if p != nil {
		item.Product = schema.Present(*p)
	}
	return item
}

// CartState is the ordered list of cart items plus the running total.
type CartState struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total" validate:"gte=0"`
}

// ComputedTotal sums price x quantity over items whose product join was
// resolved. Items with an absent product contribute nothing.
func (s *CartState) ComputedTotal() float64 {
	var sum float64
	for _, item := range s.Items {
		if p, ok := item.Product.Get(); ok {
			sum += p.Price * float64(item.Quantity)
		}
	}
	return sum
}

// AddToCartRequest is the add-item operation input.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartItemRequest is the quantity-update operation input.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func init() {
	schema.RegisterRefinement(cartTotalRefinement, CartState{})
}

// The cart total must equal the sum of line totals within the money
// tolerance.
func cartTotalRefinement(sl validator.StructLevel) {
	state := sl.Current().Interface().(CartState)
	if !schema.WithinTolerance(state.Total, state.ComputedTotal()) {
		sl.ReportError(state.Total, "total", "Total", "cart_total_mismatch", "")
	}
}

// Repository defines the contract for cart data access
type Repository interface {
	Insert(row *CartItemRow) error
	FindByUser(userID string) ([]CartItemRow, error)
	FindByUserAndProduct(userID, productID string) (*CartItemRow, error)
	UpdateQuantity(id string, quantity int, now time.Time) error
	DeleteItem(id string) error
	ClearUser(userID string) error
}
