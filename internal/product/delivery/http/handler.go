package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmstand/backend/internal/auth"
	"github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/internal/product/usecase/command"
	"github.com/farmstand/backend/internal/product/usecase/query"
	"github.com/farmstand/backend/pkg/envelope"
	"github.com/farmstand/backend/pkg/schema"
)

// ProductHandler handles HTTP requests for products and categories.
type ProductHandler struct {
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler
	saveCategory  *command.SaveCategoryHandler

	getHandler     *query.GetProductHandler
	listHandler    *query.ListProductsHandler
	listCategories *query.ListCategoriesHandler
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo domain.Repository) *ProductHandler {
	return &ProductHandler{
		createHandler:  command.NewCreateProductHandler(repo),
		updateHandler:  command.NewUpdateProductHandler(repo),
		deleteHandler:  command.NewDeleteProductHandler(repo),
		saveCategory:   command.NewSaveCategoryHandler(repo),
		getHandler:     query.NewGetProductHandler(repo),
		listHandler:    query.NewListProductsHandler(repo),
		listCategories: query.NewListCategoriesHandler(repo),
	}
}

// RegisterRoutes registers product routes. Write routes require an
// admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, jwt *auth.JWTManager) {
	products := router.Group("/products")
	products.Get("/", h.List)
	products.Get("/:id", h.Get)

	categories := router.Group("/categories")
	categories.Get("/", h.ListCategories)

	admin := router.Group("/admin", auth.RequireAuth(jwt), auth.RequireRole("admin", "manager"))
	admin.Post("/products", h.Create)
	admin.Put("/products/:id", h.Update)
	admin.Delete("/products/:id", h.Delete)
	admin.Post("/categories", h.CreateCategory)
	admin.Put("/categories/:id", h.UpdateCategory)
}

// List handles GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	categoryID := c.Query("category")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	products, err := h.listHandler.Handle(categoryID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(products))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.getHandler.Handle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(product))
}

// Create handles POST /admin/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req domain.AdminCreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	product, err := h.createHandler.Handle(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(product, "Product created"))
}

// Update handles PUT /admin/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req domain.AdminUpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	product, err := h.updateHandler.Handle(c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(product, "Product updated"))
}

// Delete handles DELETE /admin/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.deleteHandler.Handle(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(nil, "Product deleted"))
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.listCategories.Handle()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OK(categories))
}

// CreateCategory handles POST /admin/categories
func (h *ProductHandler) CreateCategory(c *fiber.Ctx) error {
	var req domain.AdminCreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	category, err := h.saveCategory.Create(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(envelope.OKMessage(category, "Category created"))
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *ProductHandler) UpdateCategory(c *fiber.Ctx) error {
	var req domain.AdminUpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(envelope.Fail("Invalid request body"))
	}

	category, err := h.saveCategory.Update(c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(envelope.OKMessage(category, "Category updated"))
}

func respondError(c *fiber.Ctx, err error) error {
	var vErr *schema.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(envelope.FromError(err))
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(envelope.FromError(err))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(envelope.FromError(err))
	}
}
