package command

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/farmstand/backend/internal/order/domain"
	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/kafka"
	"github.com/farmstand/backend/pkg/logger"
	"github.com/farmstand/backend/pkg/schema"
)

// OrderEventPublisher publishes order lifecycle events.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event kafka.OrderPlacedEvent) error
}

// SubmitOrderHandler handles the submit-order command.
type SubmitOrderHandler struct {
	orders    domain.Repository
	products  productdomain.Repository
	publisher OrderEventPublisher
	taxRate   float64
}

// NewSubmitOrderHandler creates a new submit order handler. The publisher
// may be nil when messaging is disabled.
func NewSubmitOrderHandler(orders domain.Repository, products productdomain.Repository, publisher OrderEventPublisher, taxRate float64) *SubmitOrderHandler {
	return &SubmitOrderHandler{
		orders:    orders,
		products:  products,
		publisher: publisher,
		taxRate:   taxRate,
	}
}

// Handle validates the request strictly, prices the lines from current
// product rows, validates the built order against the arithmetic
// refinements, and submits it. A non-empty conflict list means stock was
// short and nothing was persisted.
func (h *SubmitOrderHandler) Handle(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.Order, []domain.InventoryConflict, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	productRows, err := h.products.FindByIDs(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[string]productdomain.ProductRow, len(productRows))
	for _, row := range productRows {
		byID[row.ID] = row
	}

	now := time.Now()
	orderID := uuid.NewString()

	var (
		conflicts []domain.InventoryConflict
		items     []domain.OrderItemRow
		subtotal  float64
	)
	for _, reqItem := range req.Items {
		row, ok := byID[reqItem.ProductID]
		if !ok {
			conflicts = append(conflicts, domain.InventoryConflict{
				ProductID: reqItem.ProductID,
				Requested: reqItem.Quantity,
				Available: 0,
			})
			continue
		}

		product := row.ToProduct(nil)
		if !product.IsAvailable {
			conflicts = append(conflicts, domain.InventoryConflict{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   reqItem.Quantity,
				Available:   0,
			})
			continue
		}

		lineTotal := roundMoney(product.Price * float64(reqItem.Quantity))
		items = append(items, domain.OrderItemRow{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    reqItem.Quantity,
			TotalPrice:  lineTotal,
		})
		subtotal += lineTotal
	}
	if len(conflicts) > 0 {
		return nil, conflicts, domain.ErrInventoryConflict
	}

	subtotal = roundMoney(subtotal)
	tax := roundMoney(subtotal * h.taxRate)
	order := &domain.OrderRow{
		ID:              orderID,
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Status:          domain.StatusPending,
		FulfillmentType: req.FulfillmentType,
		DeliveryAddress: req.DeliveryAddress,
		PickupTime:      req.PickupTime,
		Subtotal:        subtotal,
		TaxAmount:       tax,
		TotalAmount:     roundMoney(subtotal + tax),
		Notes:           req.Notes,
		CreatedAt:       &now,
		UpdatedAt:       &now,
		OrderItems:      items,
	}

	// The arithmetic invariants are owned here by the schema layer; a
	// violation means this handler computed something wrong.
	if err := schema.Validate(order, schema.Strict); err != nil {
		return nil, nil, err
	}

	stockConflicts, err := h.orders.Submit(order)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to submit order: %w", err)
	}
	if len(stockConflicts) > 0 {
		return nil, stockConflicts, domain.ErrInventoryConflict
	}

	if h.publisher != nil {
		event := kafka.OrderPlacedEvent{
			OrderID:         order.ID,
			UserID:          userID,
			FulfillmentType: order.FulfillmentType,
			ItemCount:       len(order.OrderItems),
			TotalAmount:     order.TotalAmount,
		}
		if err := h.publisher.PublishOrderPlaced(ctx, event); err != nil {
			logger.Warn(ctx).Err(err).Str("order_id", order.ID).Msg("Failed to publish order placed event")
		}
	}

	view := order.ToOrder()
	return &view, nil, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
