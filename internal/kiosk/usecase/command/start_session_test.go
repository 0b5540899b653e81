package command

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmstand/backend/internal/kiosk/domain"
)

type fakeKioskRepo struct {
	staff        []domain.StaffRow
	sessions     map[string]*domain.KioskSessionRow
	transactions []*domain.KioskTransactionRow
}

func newFakeKioskRepo() *fakeKioskRepo {
	return &fakeKioskRepo{sessions: make(map[string]*domain.KioskSessionRow)}
}

func (f *fakeKioskRepo) FindActiveStaff() ([]domain.StaffRow, error) {
	return f.staff, nil
}

func (f *fakeKioskRepo) FindStaffByID(id string) (*domain.StaffRow, error) {
	for i := range f.staff {
		if f.staff[i].ID == id {
			return &f.staff[i], nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeKioskRepo) CreateSession(row *domain.KioskSessionRow) error {
	f.sessions[row.ID] = row
	return nil
}

func (f *fakeKioskRepo) FindSessionByID(id string) (*domain.KioskSessionRow, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeKioskRepo) FindActiveSessionByStaff(staffID string) (*domain.KioskSessionRow, error) {
	for _, session := range f.sessions {
		active := session.IsActive == nil || *session.IsActive
		if session.StaffID == staffID && active {
			return session, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeKioskRepo) RecordTransaction(tx *domain.KioskTransactionRow) error {
	session, ok := f.sessions[tx.SessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if session.IsActive != nil && !*session.IsActive {
		return domain.ErrSessionClosed
	}
	f.transactions = append(f.transactions, tx)
	return nil
}

func (f *fakeKioskRepo) EndSession(id string, endedAt time.Time) error {
	session, ok := f.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	inactive := false
	session.IsActive = &inactive
	session.SessionEnd = &endedAt
	return nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(staffID, name, role string) (string, error) {
	return "token-" + staffID, nil
}

func staffWithPin(t *testing.T, name, pin string) domain.StaffRow {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return domain.StaffRow{
		ID:      uuid.NewString(),
		Name:    name,
		Role:    "staff",
		PinHash: string(hash),
	}
}

func TestStartSessionMatchesPinAgainstStaffHashes(t *testing.T) {
	repo := newFakeKioskRepo()
	rosa := staffWithPin(t, "Rosa", "4217")
	other := staffWithPin(t, "Jordan", "9900")
	repo.staff = []domain.StaffRow{other, rosa}
	handler := NewStartSessionHandler(repo, fakeTokenIssuer{})

	result, err := handler.Handle(domain.StartSessionRequest{Pin: "4217"})
	require.NoError(t, err)

	assert.Equal(t, rosa.ID, result.Session.StaffID)
	assert.Equal(t, "Rosa", result.Session.StaffName)
	assert.True(t, result.Session.IsActive)
	assert.Equal(t, "token-"+rosa.ID, result.Token)
	assert.Len(t, repo.sessions, 1)
}

func TestStartSessionWrongPin(t *testing.T) {
	repo := newFakeKioskRepo()
	repo.staff = []domain.StaffRow{staffWithPin(t, "Rosa", "4217")}
	handler := NewStartSessionHandler(repo, fakeTokenIssuer{})

	_, err := handler.Handle(domain.StartSessionRequest{Pin: "0000"})
	assert.ErrorIs(t, err, domain.ErrInvalidPin)
	assert.Empty(t, repo.sessions)
}

func TestStartSessionReusesActiveSession(t *testing.T) {
	repo := newFakeKioskRepo()
	rosa := staffWithPin(t, "Rosa", "4217")
	repo.staff = []domain.StaffRow{rosa}
	handler := NewStartSessionHandler(repo, fakeTokenIssuer{})

	first, err := handler.Handle(domain.StartSessionRequest{Pin: "4217"})
	require.NoError(t, err)

	second, err := handler.Handle(domain.StartSessionRequest{Pin: "4217"})
	require.NoError(t, err)

	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Len(t, repo.sessions, 1)
}

func TestStartSessionRejectsMalformedPin(t *testing.T) {
	handler := NewStartSessionHandler(newFakeKioskRepo(), fakeTokenIssuer{})

	_, err := handler.Handle(domain.StartSessionRequest{Pin: "12"})
	assert.Error(t, err)
}

func TestRecordTransactionComputesAmounts(t *testing.T) {
	repo := newFakeKioskRepo()
	rosa := staffWithPin(t, "Rosa", "4217")
	repo.staff = []domain.StaffRow{rosa}
	start := NewStartSessionHandler(repo, fakeTokenIssuer{})
	record := NewRecordTransactionHandler(repo, 0.0825)

	started, err := start.Handle(domain.StartSessionRequest{Pin: "4217"})
	require.NoError(t, err)

	tx, err := record.Handle(started.Session.ID, domain.RecordTransactionRequest{
		Items: []domain.KioskTransactionItem{
			// Client-supplied totals are ignored and recomputed.
			{ProductID: "p1", ProductName: "Eggs", UnitPrice: 6.00, Quantity: 2, TotalPrice: 999},
		},
		PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)

	require.Len(t, tx.Items, 1)
	assert.Equal(t, 12.00, tx.Items[0].TotalPrice)
	assert.Equal(t, 12.00, tx.Subtotal)
	assert.Equal(t, 0.99, tx.TaxAmount)
	assert.Equal(t, 12.99, tx.TotalAmount)
	assert.Equal(t, domain.PaymentStatusCompleted, tx.PaymentStatus)
	assert.Len(t, repo.transactions, 1)
}

func TestRecordTransactionOnClosedSession(t *testing.T) {
	repo := newFakeKioskRepo()
	rosa := staffWithPin(t, "Rosa", "4217")
	repo.staff = []domain.StaffRow{rosa}
	start := NewStartSessionHandler(repo, fakeTokenIssuer{})
	record := NewRecordTransactionHandler(repo, 0.0825)
	end := NewEndSessionHandler(repo)

	started, err := start.Handle(domain.StartSessionRequest{Pin: "4217"})
	require.NoError(t, err)

	closed, err := end.Handle(started.Session.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.NotNil(t, closed.SessionEnd)

	_, err = record.Handle(started.Session.ID, domain.RecordTransactionRequest{
		Items: []domain.KioskTransactionItem{
			{ProductID: "p1", ProductName: "Eggs", UnitPrice: 6.00, Quantity: 1, TotalPrice: 6.00},
		},
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
