package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmstand/backend/internal/auth"
	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/internal/inventory/usecase/command"
	"github.com/farmstand/backend/internal/inventory/usecase/query"
	"github.com/farmstand/backend/pkg/envelope"
	"github.com/farmstand/backend/pkg/schema"
)

// InventoryHandler handles HTTP requests for inventory. Everything here
// is a staff surface.
type InventoryHandler struct {
	createHandler *command.CreateItemHandler
	recordHandler *command.RecordMovementHandler
	batchHandler  *command.BatchUpdateHandler

	getHandler       *query.GetItemHandler
	listHandler      *query.ListItemsHandler
	movementsHandler *query.ListMovementsHandler
	alertsHandler    *query.ListAlertsHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	createHandler *command.CreateItemHandler,
	recordHandler *command.RecordMovementHandler,
	batchHandler *command.BatchUpdateHandler,
	getHandler *query.GetItemHandler,
	listHandler *query.ListItemsHandler,
	movementsHandler *query.ListMovementsHandler,
	alertsHandler *query.ListAlertsHandler,
) *InventoryHandler {
	return &InventoryHandler{
		createHandler:    createHandler,
		recordHandler:    recordHandler,
		batchHandler:     batchHandler,
		getHandler:       getHandler,
		listHandler:      listHandler,
		movementsHandler: movementsHandler,
		alertsHandler:    alertsHandler,
	}
}

// RegisterRoutes registers inventory routes behind staff auth.
func (h *InventoryHandler) RegisterRoutes(router fiber.Router, jwt *auth.JWTManager) {
	inventory := router.Group("/inventory", auth.RequireAuth(jwt), auth.RequireRole("staff", "manager", "admin"))
	inventory.Get("/items", h.List)
	inventory.Get("/items/:id", h.Get)
	inventory.Post("/items", auth.RequireRole("manager", "admin"), h.Create)
	inventory.Post("/items/:id/movements", h.RecordMovement)
	inventory.Get("/items/:id/movements", h.ListMovements)
	inventory.Post("/batch", h.BatchUpdate)
	inventory.Get("/alerts", h.ListAlerts)
}

// List handles GET /inventory/items
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	status := domain.StockStatus(c.Query("status"))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	items, err := h.listHandler.Handle(status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(items))
}

// Get handles GET /inventory/items/:id
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	item, err := h.getHandler.Handle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(item))
}

// Create handles POST /inventory/items
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var req command.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	item, err := h.createHandler.Handle(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(item, "Inventory item created"))
}

// RecordMovement handles POST /inventory/items/:id/movements
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var req domain.StockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}
	req.ItemID = c.Params("id")

	performedBy, _ := c.Locals(auth.LocalStaffID).(string)
	result, err := h.recordHandler.Handle(c.UserContext(), req, performedBy)
	if err != nil {
		return respondError(c, err)
	}
	if !result.Success {
		// A business failure is a well-formed result, not a 5xx.
		return c.Status(fiber.StatusConflict).JSON(envelope.OK(result))
	}
	return c.JSON(envelope.OK(result))
}

// ListMovements handles GET /inventory/items/:id/movements
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	movements, err := h.movementsHandler.Handle(c.Params("id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(movements))
}

// BatchUpdate handles POST /inventory/batch
func (h *InventoryHandler) BatchUpdate(c *fiber.Ctx) error {
	var req domain.BulkStockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	performedBy, _ := c.Locals(auth.LocalStaffID).(string)
	results, err := h.batchHandler.Handle(c.UserContext(), req, performedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(results))
}

// ListAlerts handles GET /inventory/alerts
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	alerts, err := h.alertsHandler.Handle(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(alerts))
}

func respondError(c *fiber.Ctx, err error) error {
	var vErr *schema.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(envelope.FromError(err))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(envelope.FromError(err))
	}
}
