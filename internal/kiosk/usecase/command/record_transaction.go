package command

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/farmstand/backend/internal/kiosk/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// RecordTransactionHandler records a kiosk sale against a session.
type RecordTransactionHandler struct {
	kiosk   domain.Repository
	taxRate float64
}

// NewRecordTransactionHandler creates a new record transaction handler
func NewRecordTransactionHandler(kiosk domain.Repository, taxRate float64) *RecordTransactionHandler {
	return &RecordTransactionHandler{kiosk: kiosk, taxRate: taxRate}
}

// Handle recomputes every amount server-side from unit price and
// quantity, then validates the built row so the arithmetic refinements
// guard the write.
func (h *RecordTransactionHandler) Handle(sessionID string, req domain.RecordTransactionRequest) (*domain.KioskTransactionRow, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	items := make([]domain.KioskTransactionItem, 0, len(req.Items))
	var subtotal float64
	for _, item := range req.Items {
		item.TotalPrice = roundMoney(item.UnitPrice * float64(item.Quantity))
		items = append(items, item)
		subtotal += item.TotalPrice
	}
	subtotal = roundMoney(subtotal)
	tax := roundMoney(subtotal * h.taxRate)

	now := time.Now()
	row := &domain.KioskTransactionRow{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Items:         items,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		TotalAmount:   roundMoney(subtotal + tax),
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: domain.PaymentStatusCompleted,
		CreatedAt:     &now,
	}
	if err := schema.Validate(row, schema.Strict); err != nil {
		return nil, err
	}

	if err := h.kiosk.RecordTransaction(row); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return row, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
