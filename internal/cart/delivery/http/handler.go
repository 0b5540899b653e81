package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmstand/backend/internal/auth"
	"github.com/farmstand/backend/internal/cart/domain"
	"github.com/farmstand/backend/internal/cart/usecase/command"
	"github.com/farmstand/backend/internal/cart/usecase/query"
	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/pkg/envelope"
	"github.com/farmstand/backend/pkg/schema"
)

// CartHandler handles HTTP requests for the shopping cart. The cart is
// keyed by the authenticated user.
type CartHandler struct {
	addHandler    *command.AddItemHandler
	updateHandler *command.UpdateItemHandler
	removeHandler *command.RemoveItemHandler
	clearHandler  *command.ClearCartHandler

	getHandler *query.GetCartHandler
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts domain.Repository, products productdomain.Repository) *CartHandler {
	return &CartHandler{
		addHandler:    command.NewAddItemHandler(carts, products),
		updateHandler: command.NewUpdateItemHandler(carts, products),
		removeHandler: command.NewRemoveItemHandler(carts),
		clearHandler:  command.NewClearCartHandler(carts),
		getHandler:    query.NewGetCartHandler(carts, products),
	}
}

// RegisterRoutes registers cart routes; all require authentication.
func (h *CartHandler) RegisterRoutes(router fiber.Router, jwt *auth.JWTManager) {
	cart := router.Group("/cart", auth.RequireAuth(jwt))
	cart.Get("/", h.Get)
	cart.Post("/items", h.AddItem)
	cart.Put("/items/:productId", h.UpdateItem)
	cart.Delete("/items/:productId", h.RemoveItem)
	cart.Delete("/", h.Clear)
}

// Get handles GET /cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	state, err := h.getHandler.Handle(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(state))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req domain.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	item, err := h.addHandler.Handle(userID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(item, "Item added to cart"))
}

// UpdateItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req domain.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	item, err := h.updateHandler.Handle(userID(c), c.Params("productId"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(item, "Cart item updated"))
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.removeHandler.Handle(userID(c), c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(nil, "Item removed from cart"))
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.clearHandler.Handle(userID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(nil, "Cart cleared"))
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(auth.LocalStaffID).(string)
	return id
}

func respondError(c *fiber.Ctx, err error) error {
	var vErr *schema.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, productdomain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(envelope.FromError(err))
	case errors.Is(err, productdomain.ErrProductUnavailable),
		errors.Is(err, productdomain.ErrExceedsStock):
		return c.Status(fiber.StatusConflict).JSON(envelope.FromError(err))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(envelope.FromError(err))
	}
}
