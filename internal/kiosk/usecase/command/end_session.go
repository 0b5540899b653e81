package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/farmstand/backend/internal/kiosk/domain"
)

// EndSessionHandler closes an active kiosk session.
type EndSessionHandler struct {
	kiosk domain.Repository
}

// NewEndSessionHandler creates a new end session handler
func NewEndSessionHandler(kiosk domain.Repository) *EndSessionHandler {
	return &EndSessionHandler{kiosk: kiosk}
}

// Handle stamps the session end and returns the closed session.
func (h *EndSessionHandler) Handle(id string) (*domain.KioskSession, error) {
	if err := h.kiosk.EndSession(id, time.Now()); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to end session: %w", err)
	}

	row, err := h.kiosk.FindSessionByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load closed session: %w", err)
	}
	session := row.ToKioskSession()
	return &session, nil
}
