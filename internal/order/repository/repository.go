package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventorydomain "github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/internal/order/domain"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.OrderRow{}, &domain.OrderItemRow{})
}

// Submit reserves stock for every line and inserts the order in a single
// transaction. Inventory rows are locked FOR UPDATE NOWAIT in line order;
// any shortfall rolls the whole submission back and reports the complete
// conflict list, so either every step commits or none do.
func (r *GormOrderRepository) Submit(order *domain.OrderRow) ([]domain.InventoryConflict, error) {
	var conflicts []domain.InventoryConflict

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		for _, item := range order.OrderItems {
			var inv inventorydomain.InventoryItemRow
			err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
				First(&inv, "product_id = ?", item.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				conflicts = append(conflicts, domain.InventoryConflict{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Available:   0,
				})
				continue
			}
			if isLockNotAvailable(err) {
				return inventorydomain.ErrRowLocked
			}
			if err != nil {
				return err
			}

			available := inv.CurrentStock - inv.ReservedStock
			if item.Quantity > available {
				conflicts = append(conflicts, domain.InventoryConflict{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Available:   available,
				})
				continue
			}

			if err := tx.Model(&inventorydomain.InventoryItemRow{}).
				Where("id = ?", inv.ID).
				Updates(map[string]any{
					"reserved_stock": inv.ReservedStock + item.Quantity,
					"updated_at":     now,
				}).Error; err != nil {
				return err
			}

			movement := inventorydomain.StockMovementRow{
				ID:              uuid.NewString(),
				InventoryItemID: inv.ID,
				MovementType:    inventorydomain.MovementReservation,
				QuantityChange:  item.Quantity,
				PreviousStock:   inv.CurrentStock,
				NewStock:        inv.CurrentStock,
				OrderID:         &order.ID,
				PerformedBy:     &order.UserID,
				CreatedAt:       &now,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		if len(conflicts) > 0 {
			return domain.ErrInventoryConflict
		}

		return tx.Create(order).Error
	})

	if errors.Is(err, domain.ErrInventoryConflict) {
		return conflicts, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (r *GormOrderRepository) FindByID(id string) (*domain.OrderRow, error) {
	var row domain.OrderRow
	err := r.db.Preload("OrderItems").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormOrderRepository) FindByUser(userID string, limit, offset int) ([]domain.OrderRow, error) {
	var rows []domain.OrderRow
	err := r.db.Preload("OrderItems").Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *GormOrderRepository) FindAll(limit, offset int) ([]domain.OrderRow, error) {
	var rows []domain.OrderRow
	err := r.db.Preload("OrderItems").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *GormOrderRepository) UpdateStatus(id, status string, now time.Time) error {
	result := r.db.Model(&domain.OrderRow{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *GormOrderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.OrderRow{}).Count(&count).Error
	return count, err
}

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
