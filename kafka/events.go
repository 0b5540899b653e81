package kafka

import "time"

// LowStockAlertEvent is published whenever a stock update drives an item
// at or below one of its alert thresholds.
type LowStockAlertEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	AlertID         string    `json:"alert_id"`
	InventoryItemID string    `json:"inventory_item_id"`
	ProductID       string    `json:"product_id"`
	AlertType       string    `json:"alert_type"`
	AvailableStock  int       `json:"available_stock"`
	MinimumStock    int       `json:"minimum_stock"`
	Message         string    `json:"message"`
	Timestamp       time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published after an order submission commits.
type OrderPlacedEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OrderID         string    `json:"order_id"`
	UserID          string    `json:"user_id"`
	FulfillmentType string    `json:"fulfillment_type"`
	ItemCount       int       `json:"item_count"`
	TotalAmount     float64   `json:"total_amount"`
	Timestamp       time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeLowStockAlert = "inventory.low_stock"
	EventTypeOrderPlaced   = "order.placed"
)

// Kafka topics
const (
	TopicInventoryAlerts = "inventory-alerts"
	TopicOrderPlaced     = "order-placed"
)
