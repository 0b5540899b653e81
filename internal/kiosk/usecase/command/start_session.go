package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmstand/backend/internal/kiosk/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// TokenIssuer issues an access token for an authenticated staff member.
type TokenIssuer interface {
	Issue(staffID, name, role string) (string, error)
}

// StartSessionResult is the session-start operation output.
type StartSessionResult struct {
	Session domain.KioskSession `json:"session"`
	Token   string              `json:"token"`
}

// StartSessionHandler authenticates a staff PIN and opens a kiosk
// session.
type StartSessionHandler struct {
	kiosk  domain.Repository
	tokens TokenIssuer
}

// NewStartSessionHandler creates a new start session handler
func NewStartSessionHandler(kiosk domain.Repository, tokens TokenIssuer) *StartSessionHandler {
	return &StartSessionHandler{kiosk: kiosk, tokens: tokens}
}

// Handle checks the PIN against every active staff hash. An existing
// active session for the matched staff member is reused instead of
// opening a second one.
func (h *StartSessionHandler) Handle(req domain.StartSessionRequest) (*StartSessionResult, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	staff, err := h.kiosk.FindActiveStaff()
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}

	var matched *domain.StaffRow
	for i := range staff {
		if bcrypt.CompareHashAndPassword([]byte(staff[i].PinHash), []byte(req.Pin)) == nil {
			matched = &staff[i]
			break
		}
	}
	if matched == nil {
		return nil, domain.ErrInvalidPin
	}

	session, err := h.kiosk.FindActiveSessionByStaff(matched.ID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check existing session: %w", err)
	}
	if session == nil {
		now := time.Now()
		active := true
		sales := 0.0
		count := 0
		session = &domain.KioskSessionRow{
			ID:               uuid.NewString(),
			StaffID:          matched.ID,
			TotalSales:       &sales,
			TransactionCount: &count,
			IsActive:         &active,
			SessionStart:     &now,
			DeviceID:         req.DeviceID,
			CreatedAt:        &now,
			UpdatedAt:        &now,
		}
		if err := h.kiosk.CreateSession(session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}
	session.Staff = matched

	token, err := h.tokens.Issue(matched.ID, matched.Name, matched.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &StartSessionResult{
		Session: session.ToKioskSession(),
		Token:   token,
	}, nil
}
