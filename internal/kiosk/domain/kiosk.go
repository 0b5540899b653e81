package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/farmstand/backend/pkg/schema"
)

var (
	ErrSessionNotFound = errors.New("kiosk session not found")
	ErrSessionClosed   = errors.New("kiosk session is not active")
	ErrInvalidPin      = errors.New("invalid staff PIN")
)

// UnknownStaffName is the graceful-degradation default when the staff
// join is absent.
const UnknownStaffName = "Unknown Staff"

// StaffRow is the raw staff_pins table shape.
type StaffRow struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	Name      string     `json:"name" gorm:"not null" validate:"required,max=255"`
	Role      string     `json:"role" gorm:"not null;default:'staff'" validate:"required,oneof=staff manager admin"`
	PinHash   string     `json:"pin_hash" gorm:"not null" validate:"required"`
	IsActive  *bool      `json:"is_active"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (StaffRow) TableName() string {
	return "staff_pins"
}

// KioskSessionRow is the raw kiosk_sessions table shape, optionally
// joined with its staff row.
type KioskSessionRow struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	StaffID          string     `json:"staff_id" gorm:"type:uuid;index;not null" validate:"required"`
	TotalSales       *float64   `json:"total_sales" validate:"omitempty,gte=0"`
	TransactionCount *int       `json:"transaction_count" validate:"omitempty,gte=0"`
	IsActive         *bool      `json:"is_active"`
	SessionStart     *time.Time `json:"session_start"`
	SessionEnd       *time.Time `json:"session_end"`
	DeviceID         *string    `json:"device_id"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`

	Staff *StaffRow `json:"staff,omitempty" gorm:"foreignKey:StaffID" validate:"-"`
}

// TableName specifies the table name
func (KioskSessionRow) TableName() string {
	return "kiosk_sessions"
}

// KioskSession is the application view-model. Nullable counters default
// to zero, is_active defaults to true, and an absent staff join degrades
// to the explicit unknown-staff name rather than an error.
type KioskSession struct {
	ID               string     `json:"id"`
	StaffID          string     `json:"staffId"`
	StaffName        string     `json:"staffName"`
	TotalSales       float64    `json:"totalSales"`
	TransactionCount int        `json:"transactionCount"`
	IsActive         bool       `json:"isActive"`
	SessionStart     *time.Time `json:"sessionStart"`
	SessionEnd       *time.Time `json:"sessionEnd"`
	DeviceID         *string    `json:"deviceId"`
}

// ToKioskSession transforms a validated row into the view-model.
func (r *KioskSessionRow) ToKioskSession() KioskSession {
	staff := schema.Absent[StaffRow]()
	if r.Staff != nil {
		staff = schema.Present(*r.Staff)
	}

	totalSales := 0.0
	if r.TotalSales != nil {
		totalSales = *r.TotalSales
	}
	txCount := 0
	if r.TransactionCount != nil {
		txCount = *r.TransactionCount
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return KioskSession{
		ID:               r.ID,
		StaffID:          r.StaffID,
		StaffName:        staff.Or(StaffRow{Name: UnknownStaffName}).Name,
		TotalSales:       totalSales,
		TransactionCount: txCount,
		IsActive:         active,
		SessionStart:     r.SessionStart,
		SessionEnd:       r.SessionEnd,
		DeviceID:         r.DeviceID,
	}
}

// Payment methods and statuses
const (
	PaymentCash  = "cash"
	PaymentCard  = "card"
	PaymentOther = "other"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// KioskTransactionItem is one line of a kiosk sale, stored in the
// transaction's jsonb items column.
type KioskTransactionItem struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName" validate:"required"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	TotalPrice  float64 `json:"totalPrice" validate:"gte=0"`
}

// KioskTransactionRow is the raw kiosk_transactions table shape.
type KioskTransactionRow struct {
	ID            string                 `json:"id" gorm:"primaryKey;type:uuid" validate:"required"`
	SessionID     string                 `json:"session_id" gorm:"type:uuid;index;not null" validate:"required"`
	Items         []KioskTransactionItem `json:"items" gorm:"type:jsonb;serializer:json" validate:"required,min=1,dive"`
	Subtotal      float64                `json:"subtotal" gorm:"not null" validate:"gte=0"`
	TaxAmount     float64                `json:"tax_amount" gorm:"not null" validate:"gte=0"`
	TotalAmount   float64                `json:"total_amount" gorm:"not null" validate:"gte=0"`
	PaymentMethod string                 `json:"payment_method" gorm:"not null" validate:"required,oneof=cash card other"`
	PaymentStatus string                 `json:"payment_status" gorm:"not null;default:'pending'" validate:"required,oneof=pending completed failed"`
	CreatedAt     *time.Time             `json:"created_at"`
}

// TableName specifies the table name
func (KioskTransactionRow) TableName() string {
	return "kiosk_transactions"
}

func init() {
	schema.RegisterRefinement(kioskTransactionRefinement, KioskTransactionRow{})
}

// Kiosk sales carry the same arithmetic invariants as orders.
func kioskTransactionRefinement(sl validator.StructLevel) {
	row := sl.Current().Interface().(KioskTransactionRow)

	var lineSum float64
	for i, item := range row.Items {
		expected := item.UnitPrice * float64(item.Quantity)
		if !schema.WithinTolerance(item.TotalPrice, expected) {
			sl.ReportError(item.TotalPrice,
				fmt.Sprintf("items[%d].totalPrice", i),
				fmt.Sprintf("Items[%d].TotalPrice", i),
				"line_total_mismatch", "")
		}
		lineSum += item.TotalPrice
	}

	if len(row.Items) > 0 && !schema.WithinTolerance(row.Subtotal, lineSum) {
		sl.ReportError(row.Subtotal, "subtotal", "Subtotal", "subtotal_mismatch", "")
	}
	if !schema.WithinTolerance(row.TotalAmount, row.Subtotal+row.TaxAmount) {
		sl.ReportError(row.TotalAmount, "total_amount", "TotalAmount", "total_mismatch", "")
	}
}

// StartSessionRequest is the session-start operation input.
type StartSessionRequest struct {
	Pin      string  `json:"pin" validate:"required,numeric,min=4,max=8"`
	DeviceID *string `json:"deviceId" validate:"omitempty,max=128"`
}

// RecordTransactionRequest is the record-sale operation input.
type RecordTransactionRequest struct {
	Items         []KioskTransactionItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string                 `json:"paymentMethod" validate:"required,oneof=cash card other"`
}

// Repository defines the contract for kiosk data access.
type Repository interface {
	FindActiveStaff() ([]StaffRow, error)
	FindStaffByID(id string) (*StaffRow, error)

	CreateSession(row *KioskSessionRow) error
	FindSessionByID(id string) (*KioskSessionRow, error)
	FindActiveSessionByStaff(staffID string) (*KioskSessionRow, error)
	// RecordTransaction inserts the sale and increments the session
	// counters in one transaction.
	RecordTransaction(tx *KioskTransactionRow) error
	EndSession(id string, endedAt time.Time) error
}
