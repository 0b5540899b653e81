package domain

import "time"

// MovementType is the canonical movement enumeration. Every stock change
// flows through a movement; inventory rows are never bare-field updated.
type MovementType string

const (
	MovementRestock     MovementType = "restock"
	MovementSale        MovementType = "sale"
	MovementAdjustment  MovementType = "adjustment"
	MovementReservation MovementType = "reservation"
	MovementRelease     MovementType = "release"
)

// StockMovementRow is the immutable audit record of a single stock
// change. Created once, never mutated or deleted; current_stock is
// reconstructable from this append-only ledger.
type StockMovementRow struct {
	ID              string       `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	InventoryItemID string       `json:"inventory_item_id" gorm:"type:uuid;index;not null" validate:"required"`
	MovementType    MovementType `json:"movement_type" gorm:"not null" validate:"required,oneof=restock sale adjustment reservation release"`
	QuantityChange  int          `json:"quantity_change" gorm:"not null"`
	PreviousStock   int          `json:"previous_stock" gorm:"not null" validate:"gte=0"`
	NewStock        int          `json:"new_stock" gorm:"not null" validate:"gte=0"`
	OrderID         *string      `json:"order_id" gorm:"type:uuid"`
	Reason          *string      `json:"reason"`
	PerformedBy     *string      `json:"performed_by"`
	CreatedAt       *time.Time   `json:"created_at"`
}

// TableName specifies the table name
func (StockMovementRow) TableName() string {
	return "stock_movements"
}

// StockMovement is the application view-model for one audit entry.
type StockMovement struct {
	ID              string       `json:"id"`
	InventoryItemID string       `json:"inventoryItemId"`
	MovementType    MovementType `json:"movementType"`
	QuantityChange  int          `json:"quantityChange"`
	PreviousStock   int          `json:"previousStock"`
	NewStock        int          `json:"newStock"`
	OrderID         *string      `json:"orderId"`
	Reason          string       `json:"reason,omitempty"`
	PerformedBy     string       `json:"performedBy,omitempty"`
	CreatedAt       *time.Time   `json:"createdAt"`
}

// ToStockMovement transforms a validated row into the view-model.
func (r *StockMovementRow) ToStockMovement() StockMovement {
	var reason, performedBy string
	if r.Reason != nil {
		reason = *r.Reason
	}
	if r.PerformedBy != nil {
		performedBy = *r.PerformedBy
	}
	return StockMovement{
		ID:              r.ID,
		InventoryItemID: r.InventoryItemID,
		MovementType:    r.MovementType,
		QuantityChange:  r.QuantityChange,
		PreviousStock:   r.PreviousStock,
		NewStock:        r.NewStock,
		OrderID:         r.OrderID,
		Reason:          reason,
		PerformedBy:     performedBy,
		CreatedAt:       r.CreatedAt,
	}
}

// Stock update operations
const (
	OperationAdd      = "add"
	OperationSubtract = "subtract"
	OperationSet      = "set"
)

// StockUpdateRequest is the record-movement operation input.
type StockUpdateRequest struct {
	ItemID       string       `json:"itemId" validate:"required,uuid"`
	Operation    string       `json:"operation" validate:"required,oneof=add subtract set"`
	Quantity     int          `json:"quantity" validate:"gte=0"`
	MovementType MovementType `json:"movementType" validate:"required,oneof=restock sale adjustment reservation release"`
	Reason       *string      `json:"reason" validate:"omitempty,max=500"`
	OrderID      *string      `json:"orderId" validate:"omitempty,uuid"`
}

// BulkStockUpdateRequest applies several updates; each reports its own
// result.
type BulkStockUpdateRequest struct {
	Updates []StockUpdateRequest `json:"updates" validate:"required,min=1,dive"`
}

// StockUpdateResult mirrors the row returned by the atomic update:
// (success, new_stock, message).
type StockUpdateResult struct {
	ItemID   string `json:"itemId"`
	Success  bool   `json:"success"`
	NewStock int    `json:"newStock"`
	Message  string `json:"message,omitempty"`
}

// Alert types
const (
	AlertOutOfStock = "out_of_stock"
	AlertCritical   = "critical"
	AlertLow        = "low"
)

// InventoryAlertRow is the raw inventory_alerts table shape.
type InventoryAlertRow struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	InventoryItemID string     `json:"inventory_item_id" gorm:"type:uuid;index;not null" validate:"required"`
	AlertType       string     `json:"alert_type" gorm:"not null" validate:"required,oneof=out_of_stock critical low"`
	Message         string     `json:"message" gorm:"not null" validate:"required"`
	IsResolved      *bool      `json:"is_resolved"`
	CreatedAt       *time.Time `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`
}

// TableName specifies the table name
func (InventoryAlertRow) TableName() string {
	return "inventory_alerts"
}

// Repository defines the contract for inventory data access.
// UpdateStockAtomic is the one write path for stock: it locks the row
// (FOR UPDATE NOWAIT), recomputes stock, appends the movement, and
// evaluates alert thresholds in a single transaction. The returned alert
// is non-nil when a threshold was crossed or recovered.
type Repository interface {
	CreateItem(row *InventoryItemRow) error
	FindItemByID(id string) (*InventoryItemRow, error)
	FindItemByProductID(productID string) (*InventoryItemRow, error)
	FindAllItems(limit, offset int) ([]InventoryItemRow, error)
	UpdateStockAtomic(req StockUpdateRequest, performedBy string) (*StockUpdateResult, *InventoryAlertRow, error)
	ListMovements(itemID string, limit, offset int) ([]StockMovementRow, error)
	ListActiveAlerts(limit, offset int) ([]InventoryAlertRow, error)
}
