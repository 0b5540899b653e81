package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// CreateItemRequest creates an inventory record for a product.
type CreateItemRequest struct {
	ProductID       string  `json:"productId" validate:"required,uuid"`
	WarehouseID     *string `json:"warehouseId" validate:"omitempty,uuid"`
	CurrentStock    int     `json:"currentStock" validate:"gte=0"`
	MinimumStock    int     `json:"minimumStock" validate:"gte=0"`
	MaximumStock    *int    `json:"maximumStock" validate:"omitempty,gte=0"`
	ReorderPoint    int     `json:"reorderPoint" validate:"gte=0"`
	ReorderQuantity int     `json:"reorderQuantity" validate:"gte=0"`
	UnitCost        float64 `json:"unitCost" validate:"gte=0"`
}

// CreateItemHandler handles inventory item creation.
type CreateItemHandler struct {
	inventory domain.Repository
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(inventory domain.Repository) *CreateItemHandler {
	return &CreateItemHandler{inventory: inventory}
}

// Handle validates and persists a new inventory item.
func (h *CreateItemHandler) Handle(req CreateItemRequest) (*domain.InventoryItem, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	now := time.Now()
	active := true
	row := &domain.InventoryItemRow{
		ID:              uuid.NewString(),
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		CurrentStock:    req.CurrentStock,
		ReservedStock:   0,
		MinimumStock:    req.MinimumStock,
		MaximumStock:    req.MaximumStock,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		UnitCost:        req.UnitCost,
		IsActive:        &active,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}
	if err := h.inventory.CreateItem(row); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	item := row.ToInventoryItem()
	return &item, nil
}
