package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/farmstand/backend/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormInventoryRepositoryWithTracing wraps GormInventoryRepository with tracing
type GormInventoryRepositoryWithTracing struct {
	*GormInventoryRepository
}

// NewGormInventoryRepositoryWithTracing creates a new repository with tracing
func NewGormInventoryRepositoryWithTracing(db *gorm.DB) *GormInventoryRepositoryWithTracing {
	return &GormInventoryRepositoryWithTracing{
		GormInventoryRepository: NewGormInventoryRepository(db),
	}
}

// FindItemByIDWithContext traces a single-item lookup.
func (r *GormInventoryRepositoryWithTracing) FindItemByIDWithContext(ctx context.Context, id string) (*domain.InventoryItemRow, error) {
	_, span := tracer.Start(ctx, "repository.FindItemByID",
		trace.WithAttributes(attribute.String("inventory.item_id", id)),
	)
	defer span.End()

	row, err := r.GormInventoryRepository.FindItemByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("inventory.current_stock", row.CurrentStock),
		attribute.Int("inventory.reserved_stock", row.ReservedStock),
	)
	return row, nil
}

// UpdateStockAtomicWithContext traces the locked stock update.
func (r *GormInventoryRepositoryWithTracing) UpdateStockAtomicWithContext(ctx context.Context, req domain.StockUpdateRequest, performedBy string) (*domain.StockUpdateResult, *domain.InventoryAlertRow, error) {
	_, span := tracer.Start(ctx, "repository.UpdateStockAtomic",
		trace.WithAttributes(
			attribute.String("inventory.item_id", req.ItemID),
			attribute.String("stock.operation", req.Operation),
			attribute.String("stock.movement_type", string(req.MovementType)),
			attribute.Int("stock.quantity", req.Quantity),
		),
	)
	defer span.End()

	result, alert, err := r.GormInventoryRepository.UpdateStockAtomic(req, performedBy)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int("stock.new_value", result.NewStock))
	if alert != nil {
		span.SetAttributes(attribute.String("stock.alert_type", alert.AlertType))
	}
	return result, alert, nil
}

// ListMovementsWithContext traces the audit-ledger read.
func (r *GormInventoryRepositoryWithTracing) ListMovementsWithContext(ctx context.Context, itemID string, limit, offset int) ([]domain.StockMovementRow, error) {
	_, span := tracer.Start(ctx, "repository.ListMovements",
		trace.WithAttributes(
			attribute.String("inventory.item_id", itemID),
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	rows, err := r.GormInventoryRepository.ListMovements(itemID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(rows)))
	return rows, nil
}
