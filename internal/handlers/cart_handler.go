package handlers

import (
	"errors"
	"log"

	"tunazugba/internal/middleware"
	"tunazugba/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Patch("/:id/quantity", h.HandleUpdateQuantity)
	cartRoutes.Patch("/:id/selection", h.HandleToggleSelection)
	cartRoutes.Patch("/selection", h.HandleToggleAll)
	cartRoutes.Delete("/:id", h.HandleRemoveLine)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart retrieves the cart with totals for the selected lines.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	view, err := h.service.List(user)
	if err != nil {
		log.Printf("Error listing cart for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(view)
}

// HandleAddToCart adds a menu item with optional addons to the cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req services.AddRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	line, err := h.service.Add(user, req)
	if err != nil {
		return cartError(c, user.ID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// UpdateQuantityRequest represents the request body for a quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateQuantity changes the quantity of an existing cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.UpdateQuantity(user, c.Params("id"), req.Quantity); err != nil {
		return cartError(c, user.ID, err)
	}
	return c.JSON(fiber.Map{"message": "Quantity updated"})
}

// HandleToggleSelection flips whether a cart line participates in checkout.
func (h *CartHandler) HandleToggleSelection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	line, err := h.service.ToggleSelection(user, c.Params("id"))
	if err != nil {
		return cartError(c, user.ID, err)
	}
	return c.JSON(line)
}

// ToggleAllRequest represents the request body for select-all.
type ToggleAllRequest struct {
	Selected bool `json:"selected"`
}

// HandleToggleAll selects or deselects every cart line at once.
func (h *CartHandler) HandleToggleAll(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req ToggleAllRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.ToggleAll(user, req.Selected); err != nil {
		return cartError(c, user.ID, err)
	}
	return c.JSON(fiber.Map{"message": "Selection updated"})
}

// HandleRemoveLine deletes one cart line.
func (h *CartHandler) HandleRemoveLine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.service.Remove(user, c.Params("id")); err != nil {
		return cartError(c, user.ID, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

// HandleClearCart empties the user's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.service.Clear(user); err != nil {
		return cartError(c, user.ID, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

func cartError(c *fiber.Ctx, userID string, err error) error {
	log.Printf("Cart operation failed for user %s: %v", userID, err)

	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Insufficient stock",
			"error":   stockErr.Error(),
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Cart item not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Cart operation failed",
		"error":   err.Error(),
	})
}
