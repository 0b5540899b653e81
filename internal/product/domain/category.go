package domain

import "time"

// CategoryRow is the raw categories table shape.
type CategoryRow struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	Name        string     `json:"name" gorm:"not null" validate:"required,max=255"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	SortOrder   *int       `json:"sort_order" validate:"omitempty,gte=0"`
	IsAvailable *bool      `json:"is_available"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (CategoryRow) TableName() string {
	return "categories"
}

// Category is the application view-model for a category.
type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	SortOrder   int        `json:"sortOrder"`
	IsAvailable bool       `json:"isAvailable"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// ToCategory transforms a validated row into the view-model, applying
// defaults for nullable columns.
func (r *CategoryRow) ToCategory() Category {
	return Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: derefString(r.Description),
		ImageURL:    derefString(r.ImageURL),
		SortOrder:   derefInt(r.SortOrder, 0),
		IsAvailable: derefBool(r.IsAvailable, true),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
