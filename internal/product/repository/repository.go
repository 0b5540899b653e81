package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/farmstand/backend/internal/product/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.CategoryRow{}, &domain.ProductRow{})
}

func (r *GormProductRepository) Insert(row map[string]any) error {
	return r.db.Model(&domain.ProductRow{}).Create(row).Error
}

func (r *GormProductRepository) UpdateColumns(id string, cols map[string]any) error {
	result := r.db.Model(&domain.ProductRow{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) FindByID(id string) (*domain.ProductRow, error) {
	var row domain.ProductRow
	err := r.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormProductRepository) FindByIDs(ids []string) ([]domain.ProductRow, error) {
	var rows []domain.ProductRow
	err := r.db.Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.ProductRow, error) {
	var rows []domain.ProductRow
	err := r.db.Order("name").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) FindByCategory(categoryID string, limit, offset int) ([]domain.ProductRow, error) {
	var rows []domain.ProductRow
	err := r.db.Where("category_id = ?", categoryID).
		Order("name").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) Delete(id string) error {
	result := r.db.Delete(&domain.ProductRow{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.ProductRow{}).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) InsertCategory(row map[string]any) error {
	return r.db.Model(&domain.CategoryRow{}).Create(row).Error
}

func (r *GormProductRepository) UpdateCategoryColumns(id string, cols map[string]any) error {
	result := r.db.Model(&domain.CategoryRow{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) FindCategoryByID(id string) (*domain.CategoryRow, error) {
	var row domain.CategoryRow
	err := r.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormProductRepository) FindAllCategories() ([]domain.CategoryRow, error) {
	var rows []domain.CategoryRow
	err := r.db.Order("sort_order, name").Find(&rows).Error
	return rows, err
}
