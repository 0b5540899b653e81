package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/farmstand/backend/pkg/schema"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrInventoryConflict signals a submission rejected for stock
	// shortfalls; the conflicts list carries the per-line detail.
	ErrInventoryConflict = errors.New("insufficient stock for one or more items")
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Fulfillment types
const (
	FulfillmentPickup   = "pickup"
	FulfillmentDelivery = "delivery"
)

// OrderRow is the raw orders table shape with its order_items relation.
type OrderRow struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	UserID          string         `json:"user_id" gorm:"index;not null" validate:"required"`
	CustomerName    string         `json:"customer_name" gorm:"not null" validate:"required,max=255"`
	CustomerEmail   string         `json:"customer_email" gorm:"not null" validate:"required,email"`
	CustomerPhone   *string        `json:"customer_phone" validate:"omitempty,max=32"`
	Status          string         `json:"status" gorm:"not null;default:'pending'" validate:"required,oneof=pending confirmed ready completed cancelled"`
	FulfillmentType string         `json:"fulfillment_type" gorm:"not null" validate:"required,oneof=pickup delivery"`
	DeliveryAddress *string        `json:"delivery_address" validate:"required_if=FulfillmentType delivery"`
	PickupTime      *time.Time     `json:"pickup_time"`
	Subtotal        float64        `json:"subtotal" gorm:"not null" validate:"gte=0"`
	TaxAmount       float64        `json:"tax_amount" gorm:"not null" validate:"gte=0"`
	TotalAmount     float64        `json:"total_amount" gorm:"not null" validate:"gte=0"`
	Notes           *string        `json:"notes"`
	CreatedAt       *time.Time     `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at"`
	OrderItems      []OrderItemRow `json:"order_items" gorm:"foreignKey:OrderID" validate:"omitempty,dive"`
}

// TableName specifies the table name
func (OrderRow) TableName() string {
	return "orders"
}

// OrderItemRow is the raw order_items table shape.
type OrderItemRow struct {
	ID          string  `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	OrderID     string  `json:"order_id" gorm:"type:uuid;index;not null" validate:"required"`
	ProductID   string  `json:"product_id" gorm:"type:uuid;not null" validate:"required"`
	ProductName string  `json:"product_name" gorm:"not null" validate:"required"`
	UnitPrice   float64 `json:"unit_price" gorm:"not null" validate:"gte=0"`
	Quantity    int     `json:"quantity" gorm:"not null" validate:"required,gte=1"`
	TotalPrice  float64 `json:"total_price" gorm:"not null" validate:"gte=0"`
}

// TableName specifies the table name
func (OrderItemRow) TableName() string {
	return "order_items"
}

func init() {
	schema.RegisterRefinement(orderArithmeticRefinement, OrderRow{})
}

// Order arithmetic is owned by the schema layer: each line total must be
// unit price x quantity, the subtotal must be the sum of line totals, and
// the grand total must be subtotal plus tax, all within the money
// tolerance. A violation here means a computation bug upstream, not a
// malformed payload.
func orderArithmeticRefinement(sl validator.StructLevel) {
	row := sl.Current().Interface().(OrderRow)

	var lineSum float64
	for i, item := range row.OrderItems {
		expected := item.UnitPrice * float64(item.Quantity)
		if !schema.WithinTolerance(item.TotalPrice, expected) {
			sl.ReportError(item.TotalPrice,
				fmt.Sprintf("order_items[%d].total_price", i),
				fmt.Sprintf("OrderItems[%d].TotalPrice", i),
				"line_total_mismatch", "")
		}
		lineSum += item.TotalPrice
	}

	if len(row.OrderItems) > 0 && !schema.WithinTolerance(row.Subtotal, lineSum) {
		sl.ReportError(row.Subtotal, "subtotal", "Subtotal", "subtotal_mismatch", "")
	}
	if !schema.WithinTolerance(row.TotalAmount, row.Subtotal+row.TaxAmount) {
		sl.ReportError(row.TotalAmount, "total_amount", "TotalAmount", "total_mismatch", "")
	}
}

// Order is the application view-model.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
	Status          string      `json:"status"`
	FulfillmentType string      `json:"fulfillmentType"`
	DeliveryAddress *string     `json:"deliveryAddress"`
	PickupTime      *time.Time  `json:"pickupTime"`
	Subtotal        float64     `json:"subtotal"`
	TaxAmount       float64     `json:"taxAmount"`
	TotalAmount     float64     `json:"totalAmount"`
	Notes           string      `json:"notes,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       *time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time  `json:"updatedAt"`
}

// OrderItem is the application view-model for one order line.
type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"totalPrice"`
}

// ToOrder transforms a validated row into the view-model.
func (r *OrderRow) ToOrder() Order {
	items := make([]OrderItem, 0, len(r.OrderItems))
	for _, item := range r.OrderItems {
		items = append(items, OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
		})
	}

	var phone, notes string
	if r.CustomerPhone != nil {
		phone = *r.CustomerPhone
	}
	if r.Notes != nil {
		notes = *r.Notes
	}

	return Order{
		ID:              r.ID,
		UserID:          r.UserID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   phone,
		Status:          r.Status,
		FulfillmentType: r.FulfillmentType,
		DeliveryAddress: r.DeliveryAddress,
		PickupTime:      r.PickupTime,
		Subtotal:        r.Subtotal,
		TaxAmount:       r.TaxAmount,
		TotalAmount:     r.TotalAmount,
		Notes:           notes,
		Items:           items,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// CreateOrderRequest is the submit-order operation input.
type CreateOrderRequest struct {
	CustomerName    string                   `json:"customerName" validate:"required,min=1,max=255"`
	CustomerEmail   string                   `json:"customerEmail" validate:"required,email"`
	CustomerPhone   *string                  `json:"customerPhone" validate:"omitempty,max=32"`
	FulfillmentType string                   `json:"fulfillmentType" validate:"required,oneof=pickup delivery"`
	DeliveryAddress *string                  `json:"deliveryAddress" validate:"required_if=FulfillmentType delivery"`
	PickupTime      *time.Time               `json:"pickupTime"`
	Notes           *string                  `json:"notes" validate:"omitempty,max=2000"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderItemRequest is one requested order line.
type CreateOrderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateOrderStatusRequest is the status-update operation input.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed ready completed cancelled"`
}

// InventoryConflict is the per-line diagnostic attached to a rejected
// submission.
type InventoryConflict struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// Repository defines the contract for order data access. Submit reserves
// stock and inserts the order in one transaction; a non-empty conflict
// list means nothing was persisted.
type Repository interface {
	Submit(order *OrderRow) ([]InventoryConflict, error)
	FindByID(id string) (*OrderRow, error)
	FindByUser(userID string, limit, offset int) ([]OrderRow, error)
	FindAll(limit, offset int) ([]OrderRow, error)
	UpdateStatus(id, status string, now time.Time) error
	Count() (int64, error)
}
