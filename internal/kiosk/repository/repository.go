package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/farmstand/backend/internal/kiosk/domain"
)

type GormKioskRepository struct {
	db *gorm.DB
}

func NewGormKioskRepository(db *gorm.DB) *GormKioskRepository {
	return &GormKioskRepository{db: db}
}

func (r *GormKioskRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.StaffRow{},
		&domain.KioskSessionRow{},
		&domain.KioskTransactionRow{},
	)
}

func (r *GormKioskRepository) FindActiveStaff() ([]domain.StaffRow, error) {
	var rows []domain.StaffRow
	err := r.db.Where("is_active IS NOT FALSE").Find(&rows).Error
	return rows, err
}

func (r *GormKioskRepository) FindStaffByID(id string) (*domain.StaffRow, error) {
	var row domain.StaffRow
	err := r.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormKioskRepository) CreateSession(row *domain.KioskSessionRow) error {
	return r.db.Create(row).Error
}

func (r *GormKioskRepository) FindSessionByID(id string) (*domain.KioskSessionRow, error) {
	var row domain.KioskSessionRow
	err := r.db.Preload("Staff").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormKioskRepository) FindActiveSessionByStaff(staffID string) (*domain.KioskSessionRow, error) {
	var row domain.KioskSessionRow
	err := r.db.Where("staff_id = ? AND is_active IS NOT FALSE", staffID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// RecordTransaction inserts the sale and bumps the session counters in
// one transaction so the session totals never drift from the ledger.
func (r *GormKioskRepository) RecordTransaction(txRow *domain.KioskTransactionRow) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var session domain.KioskSessionRow
		if err := tx.First(&session, "id = ?", txRow.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if session.IsActive != nil && !*session.IsActive {
			return domain.ErrSessionClosed
		}

		if err := tx.Create(txRow).Error; err != nil {
			return err
		}

		return tx.Model(&domain.KioskSessionRow{}).
			Where("id = ?", txRow.SessionID).
			Updates(map[string]any{
				"total_sales":       gorm.Expr("COALESCE(total_sales, 0) + ?", txRow.TotalAmount),
				"transaction_count": gorm.Expr("COALESCE(transaction_count, 0) + 1"),
				"updated_at":        time.Now(),
			}).Error
	})
}

func (r *GormKioskRepository) EndSession(id string, endedAt time.Time) error {
	result := r.db.Model(&domain.KioskSessionRow{}).
		Where("id = ? AND is_active IS NOT FALSE", id).
		Updates(map[string]any{
			"is_active":   false,
			"session_end": endedAt,
			"updated_at":  endedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
