package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/schema"
)

func TestToCartItemWithoutProductJoin(t *testing.T) {
	// A row whose product was deleted still round-trips: absent product,
	// quantity preserved, raw row kept under _dbData.
	row := CartItemRow{
		ID:        "1",
		ProductID: "2",
		Quantity:  3,
		UserID:    "u",
	}

	item := row.ToCartItem(nil)

	assert.False(t, item.Product.IsPresent())
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, row, item.DBData)

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["product"])
	assert.Equal(t, float64(3), decoded["quantity"])

	dbData, ok := decoded["_dbData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1", dbData["id"])
	assert.Equal(t, "2", dbData["product_id"])
	assert.Equal(t, "u", dbData["user_id"])
	assert.Nil(t, dbData["created_at"])
	assert.Nil(t, dbData["updated_at"])
}

func TestToCartItemWithProductJoin(t *testing.T) {
	row := CartItemRow{ID: "1", ProductID: "2", Quantity: 2, UserID: "u"}
	product := productdomain.Product{ID: "2", Name: "Honey", Price: 12, IsAvailable: true}

	item := row.ToCartItem(&product)

	joined, ok := item.Product.Get()
	require.True(t, ok)
	assert.Equal(t, "Honey", joined.Name)
}

func TestComputedTotal(t *testing.T) {
	present := func(price float64, qty int) CartItem {
		return CartItem{
			Product:  schema.Present(productdomain.Product{Price: price, IsAvailable: true}),
			Quantity: qty,
		}
	}

	t.Run("sums resolved lines", func(t *testing.T) {
		state := CartState{Items: []CartItem{present(4.5, 2), present(12, 1)}}
		assert.InDelta(t, 21.0, state.ComputedTotal(), 1e-9)
	})

	t.Run("absent product contributes nothing", func(t *testing.T) {
		state := CartState{Items: []CartItem{
			present(4.5, 2),
			{Product: schema.Absent[productdomain.Product](), Quantity: 5},
		}}
		assert.InDelta(t, 9.0, state.ComputedTotal(), 1e-9)
	})

	t.Run("empty cart totals zero", func(t *testing.T) {
		state := CartState{}
		assert.Zero(t, state.ComputedTotal())
	})
}

func TestCartTotalRefinement(t *testing.T) {
	item := CartItem{
		Product:  schema.Present(productdomain.Product{Price: 5, IsAvailable: true}),
		Quantity: 2,
	}

	t.Run("matching total passes", func(t *testing.T) {
		state := CartState{Items: []CartItem{item}, Total: 10}
		assert.NoError(t, schema.Validate(&state, schema.Strict))
	})

	t.Run("drifted total fails with named rule", func(t *testing.T) {
		state := CartState{Items: []CartItem{item}, Total: 10.5}
		err := schema.Validate(&state, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "total", issues[0].Field)
		assert.Equal(t, "cart_total_mismatch", issues[0].Rule)
	})

	t.Run("within tolerance passes", func(t *testing.T) {
		state := CartState{Items: []CartItem{item}, Total: 10.009}
		assert.NoError(t, schema.Validate(&state, schema.Strict))
	})
}

func TestCartRequestValidation(t *testing.T) {
	t.Run("quantity below one rejected", func(t *testing.T) {
		req := AddToCartRequest{ProductID: "0c8e27d4-1f3a-4f2d-9f3a-6a2b9c1d0e5f", Quantity: 0}
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("non-uuid product rejected", func(t *testing.T) {
		req := AddToCartRequest{ProductID: "abc", Quantity: 1}
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("valid request passes", func(t *testing.T) {
		req := AddToCartRequest{ProductID: "0c8e27d4-1f3a-4f2d-9f3a-6a2b9c1d0e5f", Quantity: 2}
		assert.NoError(t, schema.Validate(&req, schema.Strict))
	})
}
