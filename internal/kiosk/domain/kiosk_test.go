package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstand/backend/pkg/schema"
)

func sessionRow() KioskSessionRow {
	now := time.Now()
	return KioskSessionRow{
		ID:           uuid.NewString(),
		StaffID:      uuid.NewString(),
		SessionStart: &now,
	}
}

func TestToKioskSessionDefaults(t *testing.T) {
	row := sessionRow()

	session := row.ToKioskSession()

	assert.Equal(t, UnknownStaffName, session.StaffName, "absent staff join degrades, never errors")
	assert.Zero(t, session.TotalSales)
	assert.Zero(t, session.TransactionCount)
	assert.True(t, session.IsActive, "null is_active defaults to true")
}

func TestToKioskSessionWithStaffJoin(t *testing.T) {
	row := sessionRow()
	row.Staff = &StaffRow{ID: row.StaffID, Name: "Rosa", Role: "staff", PinHash: "x"}
	sales := 124.50
	count := 9
	active := false
	row.TotalSales = &sales
	row.TransactionCount = &count
	row.IsActive = &active

	session := row.ToKioskSession()

	assert.Equal(t, "Rosa", session.StaffName)
	assert.Equal(t, 124.50, session.TotalSales)
	assert.Equal(t, 9, session.TransactionCount)
	assert.False(t, session.IsActive)
}

func transactionRow() KioskTransactionRow {
	return KioskTransactionRow{
		ID:        uuid.NewString(),
		SessionID: uuid.NewString(),
		Items: []KioskTransactionItem{
			{ProductID: "p1", ProductName: "Eggs", UnitPrice: 6.00, Quantity: 2, TotalPrice: 12.00},
			{ProductID: "p2", ProductName: "Butter", UnitPrice: 8.50, Quantity: 1, TotalPrice: 8.50},
		},
		Subtotal:      20.50,
		TaxAmount:     1.69,
		TotalAmount:   22.19,
		PaymentMethod: PaymentCash,
		PaymentStatus: PaymentStatusCompleted,
	}
}

func TestKioskTransactionRefinement(t *testing.T) {
	t.Run("consistent transaction passes", func(t *testing.T) {
		row := transactionRow()
		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})

	t.Run("line total mismatch reports camelCase indexed path", func(t *testing.T) {
		row := transactionRow()
		row.Items[0].TotalPrice = 13.00
		row.Subtotal = 21.50
		row.TotalAmount = 23.19

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "items[0].totalPrice", issues[0].Field)
		assert.Equal(t, "line_total_mismatch", issues[0].Rule)
	})

	t.Run("subtotal and total mismatches", func(t *testing.T) {
		row := transactionRow()
		row.Subtotal = 19.00

		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		rules := make(map[string]bool)
		for _, issue := range schema.IssuesOf(err) {
			rules[issue.Rule] = true
		}
		assert.True(t, rules["subtotal_mismatch"])
		assert.True(t, rules["total_mismatch"])
	})
}

func TestStartSessionRequestValidation(t *testing.T) {
	t.Run("valid pin passes", func(t *testing.T) {
		req := StartSessionRequest{Pin: "1234"}
		assert.NoError(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("short pin rejected", func(t *testing.T) {
		req := StartSessionRequest{Pin: "123"}
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("non numeric pin rejected", func(t *testing.T) {
		req := StartSessionRequest{Pin: "12ab"}
		err := schema.Validate(&req, schema.Strict)
		require.Error(t, err)
		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "numeric", issues[0].Rule)
	})
}

func TestRecordTransactionRequestValidation(t *testing.T) {
	t.Run("unknown payment method rejected", func(t *testing.T) {
		req := RecordTransactionRequest{
			Items: []KioskTransactionItem{
				{ProductID: "p1", ProductName: "Eggs", UnitPrice: 6, Quantity: 1, TotalPrice: 6},
			},
			PaymentMethod: "check",
		}
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("empty items rejected", func(t *testing.T) {
		req := RecordTransactionRequest{PaymentMethod: PaymentCard}
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})
}
