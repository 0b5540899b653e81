package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstand/backend/pkg/schema"
)

func strPtr(v string) *string { return &v }

func validOrderRow() OrderRow {
	orderID := uuid.NewString()
	return OrderRow{
		ID:              orderID,
		UserID:          "user-1",
		CustomerName:    "Dana Miller",
		CustomerEmail:   "dana@example.com",
		Status:          StatusPending,
		FulfillmentType: FulfillmentPickup,
		Subtotal:        21.00,
		TaxAmount:       1.73,
		TotalAmount:     22.73,
		OrderItems: []OrderItemRow{
			{
				ID:          uuid.NewString(),
				OrderID:     orderID,
				ProductID:   uuid.NewString(),
				ProductName: "Heirloom Tomatoes",
				UnitPrice:   4.50,
				Quantity:    2,
				TotalPrice:  9.00,
			},
			{
				ID:          uuid.NewString(),
				OrderID:     orderID,
				ProductID:   uuid.NewString(),
				ProductName: "Raw Honey",
				UnitPrice:   12.00,
				Quantity:    1,
				TotalPrice:  12.00,
			},
		},
	}
}

func TestOrderRowValidRowPasses(t *testing.T) {
	row := validOrderRow()
	assert.NoError(t, schema.Validate(&row, schema.Strict))
}

func TestOrderArithmeticRefinement(t *testing.T) {
	t.Run("line total mismatch reports indexed path", func(t *testing.T) {
		row := validOrderRow()
		row.OrderItems[1].TotalPrice = 13.00
		row.Subtotal = 22.00
		row.TotalAmount = 23.73

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "order_items[1].total_price", issues[0].Field)
		assert.Equal(t, "line_total_mismatch", issues[0].Rule)
	})

	t.Run("subtotal mismatch", func(t *testing.T) {
		row := validOrderRow()
		row.Subtotal = 20.00
		row.TotalAmount = 21.73

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "subtotal", issues[0].Field)
		assert.Equal(t, "subtotal_mismatch", issues[0].Rule)
	})

	t.Run("grand total mismatch", func(t *testing.T) {
		row := validOrderRow()
		row.TotalAmount = 25.00

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "total_amount", issues[0].Field)
		assert.Equal(t, "total_mismatch", issues[0].Rule)
	})

	t.Run("all violations reported together", func(t *testing.T) {
		row := validOrderRow()
		row.OrderItems[0].TotalPrice = 1.00
		row.TotalAmount = 100.00

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		rules := make(map[string]bool)
		for _, issue := range schema.IssuesOf(err) {
			rules[issue.Rule] = true
		}
		assert.True(t, rules["line_total_mismatch"])
		assert.True(t, rules["subtotal_mismatch"])
		assert.True(t, rules["total_mismatch"])
	})

	t.Run("sub-cent drift tolerated", func(t *testing.T) {
		row := validOrderRow()
		row.Subtotal = 21.005
		row.TotalAmount = 22.735

		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})
}

func TestDeliveryRequiresAddress(t *testing.T) {
	t.Run("row level", func(t *testing.T) {
		row := validOrderRow()
		row.FulfillmentType = FulfillmentDelivery
		row.DeliveryAddress = nil

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "delivery_address", issues[0].Field)
		assert.Equal(t, "required_if", issues[0].Rule)

		row.DeliveryAddress = strPtr("12 Orchard Lane")
		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})

	t.Run("request level", func(t *testing.T) {
		req := CreateOrderRequest{
			CustomerName:    "Dana Miller",
			CustomerEmail:   "dana@example.com",
			FulfillmentType: FulfillmentDelivery,
			Items: []CreateOrderItemRequest{
				{ProductID: uuid.NewString(), Quantity: 1},
			},
		}

		err := schema.Validate(&req, schema.Strict)
		require.Error(t, err)
		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "deliveryAddress", issues[0].Field)

		req.DeliveryAddress = strPtr("12 Orchard Lane")
		assert.NoError(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("pickup needs no address", func(t *testing.T) {
		row := validOrderRow()
		row.DeliveryAddress = nil
		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})
}

func TestCreateOrderRequestValidation(t *testing.T) {
	t.Run("empty items rejected", func(t *testing.T) {
		req := CreateOrderRequest{
			CustomerName:    "Dana Miller",
			CustomerEmail:   "dana@example.com",
			FulfillmentType: FulfillmentPickup,
		}
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("bad status rejected", func(t *testing.T) {
		req := UpdateOrderStatusRequest{Status: "shipped"}
		err := schema.Validate(&req, schema.Strict)
		require.Error(t, err)
		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "oneof", issues[0].Rule)
	})
}

func TestToOrder(t *testing.T) {
	row := validOrderRow()
	row.CustomerPhone = strPtr("555-0100")
	row.Notes = strPtr("leave by the gate")

	order := row.ToOrder()

	assert.Equal(t, row.ID, order.ID)
	assert.Equal(t, "555-0100", order.CustomerPhone)
	assert.Equal(t, "leave by the gate", order.Notes)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Heirloom Tomatoes", order.Items[0].ProductName)
	assert.Equal(t, 9.00, order.Items[0].TotalPrice)

	// Transforming twice yields the identical view-model.
	assert.Equal(t, order, row.ToOrder())
}
