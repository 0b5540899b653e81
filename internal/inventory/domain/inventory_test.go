package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstand/backend/pkg/schema"
)

func TestComputeStockStatus(t *testing.T) {
	// minimum 5, reorder point 20
	tests := []struct {
		name      string
		available int
		want      StockStatus
	}{
		{"negative is out of stock", -3, StockOutOfStock},
		{"zero is out of stock", 0, StockOutOfStock},
		{"one is critical", 1, StockCritical},
		{"at minimum is critical", 5, StockCritical},
		{"just above minimum is low", 6, StockLow},
		{"at reorder point is low", 20, StockLow},
		{"above reorder point is normal", 21, StockNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStockStatus(tt.available, 5, 20))
		})
	}
}

func TestComputeStockStatusOrderingWhenThresholdsOverlap(t *testing.T) {
	// out_of_stock wins over critical wins over low.
	assert.Equal(t, StockOutOfStock, ComputeStockStatus(0, 5, 20))
	assert.Equal(t, StockCritical, ComputeStockStatus(5, 5, 5))
	// reorder point below minimum: the minimum check still fires first
	assert.Equal(t, StockCritical, ComputeStockStatus(4, 10, 2))
}

func itemRow() InventoryItemRow {
	now := time.Now()
	return InventoryItemRow{
		ID:              uuid.NewString(),
		ProductID:       uuid.NewString(),
		CurrentStock:    50,
		ReservedStock:   10,
		MinimumStock:    5,
		ReorderPoint:    20,
		ReorderQuantity: 30,
		UnitCost:        2.50,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}
}

func TestToInventoryItemDerivedFields(t *testing.T) {
	row := itemRow()

	item := row.ToInventoryItem()

	assert.Equal(t, 40, item.AvailableStock, "available = current - reserved")
	assert.InDelta(t, 125.0, item.TotalValue, 1e-9, "total value = current x unit cost")
	assert.Equal(t, StockNormal, item.StockStatus)
	assert.True(t, item.IsActive, "null is_active defaults to true")
}

func TestToInventoryItemStatusUsesAvailableNotCurrent(t *testing.T) {
	row := itemRow()
	row.CurrentStock = 25
	row.ReservedStock = 25

	item := row.ToInventoryItem()

	assert.Equal(t, 0, item.AvailableStock)
	assert.Equal(t, StockOutOfStock, item.StockStatus)
	assert.InDelta(t, 62.5, item.TotalValue, 1e-9, "value still follows current stock")
}

func TestToInventoryItemIdempotent(t *testing.T) {
	row := itemRow()
	assert.Equal(t, row.ToInventoryItem(), row.ToInventoryItem())
}

func TestInventoryRowValidation(t *testing.T) {
	t.Run("valid row passes", func(t *testing.T) {
		row := itemRow()
		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})

	t.Run("negative stock fails", func(t *testing.T) {
		row := itemRow()
		row.CurrentStock = -1
		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)
		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "current_stock", issues[0].Field)
	})
}

func TestStockUpdateRequestValidation(t *testing.T) {
	valid := StockUpdateRequest{
		ItemID:       uuid.NewString(),
		Operation:    OperationAdd,
		Quantity:     10,
		MovementType: MovementRestock,
	}

	t.Run("valid request passes", func(t *testing.T) {
		req := valid
		assert.NoError(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("unknown operation rejected", func(t *testing.T) {
		req := valid
		req.Operation = "increment"
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("legacy movement type rejected", func(t *testing.T) {
		req := valid
		req.MovementType = "in"
		err := schema.Validate(&req, schema.Strict)
		require.Error(t, err)
		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "movementType", issues[0].Field)
		assert.Equal(t, "oneof", issues[0].Rule)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		req := valid
		req.Quantity = -5
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		batch := BulkStockUpdateRequest{}
		assert.Error(t, schema.Validate(&batch, schema.Strict))
	})

	t.Run("batch validates each entry", func(t *testing.T) {
		bad := valid
		bad.Operation = "increment"
		batch := BulkStockUpdateRequest{Updates: []StockUpdateRequest{valid, bad}}
		err := schema.Validate(&batch, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "updates[1].operation", issues[0].Field)
	})
}
