package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/farmstand/backend/internal/cart/domain"
)

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.CartItemRow{})
}

func (r *GormCartRepository) Insert(row *domain.CartItemRow) error {
	return r.db.Create(row).Error
}

func (r *GormCartRepository) FindByUser(userID string) ([]domain.CartItemRow, error) {
	var rows []domain.CartItemRow
	err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&rows).Error
	return rows, err
}

func (r *GormCartRepository) FindByUserAndProduct(userID, productID string) (*domain.CartItemRow, error) {
	var row domain.CartItemRow
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormCartRepository) UpdateQuantity(id string, quantity int, now time.Time) error {
	result := r.db.Model(&domain.CartItemRow{}).Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *GormCartRepository) DeleteItem(id string) error {
	result := r.db.Delete(&domain.CartItemRow{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *GormCartRepository) ClearUser(userID string) error {
	return r.db.Delete(&domain.CartItemRow{}, "user_id = ?", userID).Error
}
