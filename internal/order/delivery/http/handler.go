package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmstand/backend/internal/auth"
	"github.com/farmstand/backend/internal/order/domain"
	"github.com/farmstand/backend/internal/order/usecase/command"
	"github.com/farmstand/backend/internal/order/usecase/query"
	"github.com/farmstand/backend/pkg/envelope"
	"github.com/farmstand/backend/pkg/schema"
)

// conflictResponse extends the envelope with per-line inventory
// conflicts so the client can show exactly which items fell short.
type conflictResponse struct {
	envelope.Response
	InventoryConflicts []domain.InventoryConflict `json:"inventoryConflicts"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	submitHandler *command.SubmitOrderHandler
	statusHandler *command.UpdateStatusHandler

	getHandler  *query.GetOrderHandler
	listHandler *query.ListOrdersHandler
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	submitHandler *command.SubmitOrderHandler,
	statusHandler *command.UpdateStatusHandler,
	getHandler *query.GetOrderHandler,
	listHandler *query.ListOrdersHandler,
) *OrderHandler {
	return &OrderHandler{
		submitHandler: submitHandler,
		statusHandler: statusHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
	}
}

// RegisterRoutes registers order routes. Customers submit and read
// their own orders; status changes require staff.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, jwt *auth.JWTManager) {
	orders := router.Group("/orders", auth.RequireAuth(jwt))
	orders.Post("/", h.Submit)
	orders.Get("/", h.List)
	orders.Get("/:id", h.Get)
	orders.Patch("/:id/status", auth.RequireRole("staff", "manager", "admin"), h.UpdateStatus)
}

// Submit handles POST /orders
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var req domain.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	userID, _ := c.Locals(auth.LocalStaffID).(string)
	order, conflicts, err := h.submitHandler.Handle(c.UserContext(), userID, req)
	if err != nil {
		if errors.Is(err, domain.ErrInventoryConflict) {
			return c.Status(fiber.StatusConflict).JSON(conflictResponse{
				Response:           envelope.Fail("Some items are out of stock"),
				InventoryConflicts: conflicts,
			})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(order, "Order placed"))
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.getHandler.Handle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(order))
}

// List handles GET /orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals(auth.LocalStaffID).(string)
	role, _ := c.Locals(auth.LocalRole).(string)
	// Staff see all orders; customers only their own.
	if role == "staff" || role == "manager" || role == "admin" {
		userID = c.Query("user", "")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	orders, err := h.listHandler.Handle(userID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(orders))
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req domain.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	order, err := h.statusHandler.Handle(c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(order, "Order status updated"))
}

func respondError(c *fiber.Ctx, err error) error {
	var vErr *schema.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(envelope.FromError(err))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(envelope.FromError(err))
	}
}
