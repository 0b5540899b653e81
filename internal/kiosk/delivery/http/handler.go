package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmstand/backend/internal/auth"
	"github.com/farmstand/backend/internal/kiosk/domain"
	"github.com/farmstand/backend/internal/kiosk/usecase/command"
	"github.com/farmstand/backend/internal/kiosk/usecase/query"
	"github.com/farmstand/backend/pkg/envelope"
	"github.com/farmstand/backend/pkg/schema"
)

// KioskHandler handles HTTP requests for the in-store kiosk.
type KioskHandler struct {
	startHandler  *command.StartSessionHandler
	recordHandler *command.RecordTransactionHandler
	endHandler    *command.EndSessionHandler

	getHandler *query.GetSessionHandler

	pinLimiter fiber.Handler
}

// NewKioskHandler creates a new kiosk handler. pinLimiter guards the
// PIN endpoint against brute forcing; pass nil to disable.
func NewKioskHandler(
	startHandler *command.StartSessionHandler,
	recordHandler *command.RecordTransactionHandler,
	endHandler *command.EndSessionHandler,
	getHandler *query.GetSessionHandler,
	pinLimiter fiber.Handler,
) *KioskHandler {
	return &KioskHandler{
		startHandler:  startHandler,
		recordHandler: recordHandler,
		endHandler:    endHandler,
		getHandler:    getHandler,
		pinLimiter:    pinLimiter,
	}
}

// RegisterRoutes registers kiosk routes. Session start authenticates by
// PIN; everything after requires the issued token.
func (h *KioskHandler) RegisterRoutes(router fiber.Router, jwt *auth.JWTManager) {
	kiosk := router.Group("/kiosk")
	if h.pinLimiter != nil {
		kiosk.Post("/sessions", h.pinLimiter, h.StartSession)
	} else {
		kiosk.Post("/sessions", h.StartSession)
	}

	authed := kiosk.Group("", auth.RequireAuth(jwt))
	authed.Get("/sessions/:id", h.GetSession)
	authed.Post("/sessions/:id/transactions", h.RecordTransaction)
	authed.Post("/sessions/:id/end", h.EndSession)
}

// StartSession handles POST /kiosk/sessions
func (h *KioskHandler) StartSession(c *fiber.Ctx) error {
	var req domain.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	result, err := h.startHandler.Handle(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(result, "Session started"))
}

// GetSession handles GET /kiosk/sessions/:id
func (h *KioskHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.getHandler.Handle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(session))
}

// RecordTransaction handles POST /kiosk/sessions/:id/transactions
func (h *KioskHandler) RecordTransaction(c *fiber.Ctx) error {
	var req domain.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	tx, err := h.recordHandler.Handle(c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(tx, "Transaction recorded"))
}

// EndSession handles POST /kiosk/sessions/:id/end
func (h *KioskHandler) EndSession(c *fiber.Ctx) error {
	session, err := h.endHandler.Handle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(session, "Session ended"))
}

func respondError(c *fiber.Ctx, err error) error {
	var vErr *schema.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrInvalidPin):
		return c.Status(fiber.StatusUnauthorized).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(envelope.FromError(err))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(envelope.FromError(err))
	}
}
