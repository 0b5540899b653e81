package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmstand/backend/internal/inventory/domain"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.InventoryItemRow{},
		&domain.StockMovementRow{},
		&domain.InventoryAlertRow{},
	)
}

func (r *GormInventoryRepository) CreateItem(row *domain.InventoryItemRow) error {
	return r.db.Create(row).Error
}

func (r *GormInventoryRepository) FindItemByID(id string) (*domain.InventoryItemRow, error) {
	var row domain.InventoryItemRow
	err := r.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormInventoryRepository) FindItemByProductID(productID string) (*domain.InventoryItemRow, error) {
	var row domain.InventoryItemRow
	err := r.db.First(&row, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormInventoryRepository) FindAllItems(limit, offset int) ([]domain.InventoryItemRow, error) {
	var rows []domain.InventoryItemRow
	err := r.db.Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *GormInventoryRepository) ListMovements(itemID string, limit, offset int) ([]domain.StockMovementRow, error) {
	var rows []domain.StockMovementRow
	err := r.db.Where("inventory_item_id = ?", itemID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *GormInventoryRepository) ListActiveAlerts(limit, offset int) ([]domain.InventoryAlertRow, error) {
	var rows []domain.InventoryAlertRow
	err := r.db.Where("is_resolved IS NOT TRUE").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

// UpdateStockAtomic is the single stock write path. It locks the item row
// with FOR UPDATE NOWAIT, recomputes stock, rejects negative results,
// appends the audit movement, and evaluates alert thresholds inside one
// transaction. Lock contention fails immediately with ErrRowLocked; the
// caller retries with its own backoff.
func (r *GormInventoryRepository) UpdateStockAtomic(req domain.StockUpdateRequest, performedBy string) (*domain.StockUpdateResult, *domain.InventoryAlertRow, error) {
	var (
		result domain.StockUpdateResult
		alert  *domain.InventoryAlertRow
	)
	result.ItemID = req.ItemID

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var item domain.InventoryItemRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
			First(&item, "id = ?", req.ItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		if isLockNotAvailable(err) {
			return domain.ErrRowLocked
		}
		if err != nil {
			return err
		}

		previous := item.CurrentStock
		newStock := previous
		reserved := item.ReservedStock

		switch req.MovementType {
		case domain.MovementReservation:
			if req.Quantity > previous-reserved {
				return domain.ErrInsufficientStock
			}
			reserved += req.Quantity
		case domain.MovementRelease:
			if req.Quantity > reserved {
				reserved = 0
			} else {
				reserved -= req.Quantity
			}
		default:
			switch req.Operation {
			case domain.OperationAdd:
				newStock = previous + req.Quantity
			case domain.OperationSubtract:
				newStock = previous - req.Quantity
			case domain.OperationSet:
				newStock = req.Quantity
			}
			if newStock < 0 {
				return domain.ErrInsufficientStock
			}
		}

		now := time.Now()
		updates := map[string]any{
			"current_stock":  newStock,
			"reserved_stock": reserved,
			"updated_at":     now,
		}
		if err := tx.Model(&domain.InventoryItemRow{}).
			Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return err
		}

		movement := domain.StockMovementRow{
			ID:              uuid.NewString(),
			InventoryItemID: item.ID,
			MovementType:    req.MovementType,
			QuantityChange:  newStock - previous,
			PreviousStock:   previous,
			NewStock:        newStock,
			OrderID:         req.OrderID,
			Reason:          req.Reason,
			PerformedBy:     &performedBy,
			CreatedAt:       &now,
		}
		if req.MovementType == domain.MovementReservation || req.MovementType == domain.MovementRelease {
			movement.QuantityChange = req.Quantity
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		a, err := evaluateAlerts(tx, &item, newStock-reserved, now)
		if err != nil {
			return err
		}
		alert = a

		result.Success = true
		result.NewStock = newStock
		result.Message = "Stock updated"
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &result, alert, nil
}

// evaluateAlerts upserts an alert row when available stock sits at or
// below a threshold, and resolves open alerts once stock recovers.
func evaluateAlerts(tx *gorm.DB, item *domain.InventoryItemRow, available int, now time.Time) (*domain.InventoryAlertRow, error) {
	status := domain.ComputeStockStatus(available, item.MinimumStock, item.ReorderPoint)

	if status == domain.StockNormal {
		err := tx.Model(&domain.InventoryAlertRow{}).
			Where("inventory_item_id = ? AND is_resolved IS NOT TRUE", item.ID).
			Updates(map[string]any{"is_resolved": true, "resolved_at": now}).Error
		return nil, err
	}

	var open domain.InventoryAlertRow
	err := tx.Where("inventory_item_id = ? AND is_resolved IS NOT TRUE", item.ID).
		First(&open).Error
	switch {
	case err == nil && open.AlertType == string(status):
		// Already alerted at this level.
		return nil, nil
	case err == nil:
		// Severity changed: resolve the stale alert, raise a fresh one.
		if err := tx.Model(&domain.InventoryAlertRow{}).
			Where("id = ?", open.ID).
			Updates(map[string]any{"is_resolved": true, "resolved_at": now}).Error; err != nil {
			return nil, err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	resolved := false
	alert := domain.InventoryAlertRow{
		ID:              uuid.NewString(),
		InventoryItemID: item.ID,
		AlertType:       string(status),
		Message:         fmt.Sprintf("Product %s has %d units available (threshold %d)", item.ProductID, available, item.MinimumStock),
		IsResolved:      &resolved,
		CreatedAt:       &now,
	}
	if err := tx.Create(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// isLockNotAvailable detects postgres error 55P03, raised by NOWAIT when
// another transaction holds the row lock.
func isLockNotAvailable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03"
	}
	return strings.Contains(err.Error(), "could not obtain lock")
}
