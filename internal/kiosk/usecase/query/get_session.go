package query

import (
	"errors"
	"fmt"

	"github.com/farmstand/backend/internal/kiosk/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// GetSessionHandler handles the single kiosk session read.
type GetSessionHandler struct {
	kiosk domain.Repository
}

// NewGetSessionHandler creates a new get session handler
func NewGetSessionHandler(kiosk domain.Repository) *GetSessionHandler {
	return &GetSessionHandler{kiosk: kiosk}
}

// Handle loads a session with its staff join. A missing join degrades
// to the unknown-staff name in the view-model instead of failing.
func (h *GetSessionHandler) Handle(id string) (*domain.KioskSession, error) {
	row, err := h.kiosk.FindSessionByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := schema.Validate(row, schema.Lenient); err != nil {
		return nil, err
	}

	session := row.ToKioskSession()
	return &session, nil
}
