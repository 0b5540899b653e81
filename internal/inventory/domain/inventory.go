package domain

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrInsufficientStock rejects any operation that would drive stock
	// negative.
	ErrInsufficientStock = errors.New("Insufficient stock")
	// ErrRowLocked signals lock contention on the inventory row. The
	// update never blocks or retries; callers retry with their own
	// backoff.
	ErrRowLocked = errors.New("item is being updated by another process")
)

// StockStatus buckets available stock against the item thresholds.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockCritical   StockStatus = "critical"
	StockLow        StockStatus = "low"
	StockNormal     StockStatus = "normal"
)

// ComputeStockStatus applies the threshold ordering: out_of_stock iff
// available <= 0, critical iff available <= minimum, low iff available <=
// reorder point, else normal.
func ComputeStockStatus(available, minimum, reorderPoint int) StockStatus {
	switch {
	case available <= 0:
		return StockOutOfStock
	case available <= minimum:
		return StockCritical
	case available <= reorderPoint:
		return StockLow
	default:
		return StockNormal
	}
}

// InventoryItemRow is the raw inventory_items table shape.
type InventoryItemRow struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	ProductID       string     `json:"product_id" gorm:"type:uuid;index;not null" validate:"required"`
	WarehouseID     *string    `json:"warehouse_id" gorm:"type:uuid"`
	CurrentStock    int        `json:"current_stock" gorm:"not null;default:0" validate:"gte=0"`
	ReservedStock   int        `json:"reserved_stock" gorm:"not null;default:0" validate:"gte=0"`
	MinimumStock    int        `json:"minimum_stock" gorm:"not null;default:0" validate:"gte=0"`
	MaximumStock    *int       `json:"maximum_stock" validate:"omitempty,gte=0"`
	ReorderPoint    int        `json:"reorder_point" gorm:"not null;default:0" validate:"gte=0"`
	ReorderQuantity int        `json:"reorder_quantity" gorm:"not null;default:0" validate:"gte=0"`
	UnitCost        float64    `json:"unit_cost" gorm:"not null;default:0" validate:"gte=0"`
	IsActive        *bool      `json:"is_active"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (InventoryItemRow) TableName() string {
	return "inventory_items"
}

// InventoryItem is the application view-model with derived fields. The
// formulas are exact: availableStock = currentStock - reservedStock and
// totalValue = currentStock x unitCost.
type InventoryItem struct {
	ID              string      `json:"id"`
	ProductID       string      `json:"productId"`
	WarehouseID     *string     `json:"warehouseId"`
	CurrentStock    int         `json:"currentStock"`
	ReservedStock   int         `json:"reservedStock"`
	AvailableStock  int         `json:"availableStock"`
	MinimumStock    int         `json:"minimumStock"`
	MaximumStock    *int        `json:"maximumStock"`
	ReorderPoint    int         `json:"reorderPoint"`
	ReorderQuantity int         `json:"reorderQuantity"`
	UnitCost        float64     `json:"unitCost"`
	TotalValue      float64     `json:"totalValue"`
	StockStatus     StockStatus `json:"stockStatus"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       *time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time  `json:"updatedAt"`
}

// ToInventoryItem transforms a validated row into the view-model. Pure
// and deterministic: transforming the same row twice yields identical
// output.
func (r *InventoryItemRow) ToInventoryItem() InventoryItem {
	available := r.CurrentStock - r.ReservedStock

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return InventoryItem{
		ID:              r.ID,
		ProductID:       r.ProductID,
		WarehouseID:     r.WarehouseID,
		CurrentStock:    r.CurrentStock,
		ReservedStock:   r.ReservedStock,
		AvailableStock:  available,
		MinimumStock:    r.MinimumStock,
		MaximumStock:    r.MaximumStock,
		ReorderPoint:    r.ReorderPoint,
		ReorderQuantity: r.ReorderQuantity,
		UnitCost:        r.UnitCost,
		TotalValue:      float64(r.CurrentStock) * r.UnitCost,
		StockStatus:     ComputeStockStatus(available, r.MinimumStock, r.ReorderPoint),
		IsActive:        active,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
