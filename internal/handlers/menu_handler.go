package handlers

import (
	"errors"
	"log"

	"tunazugba/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MenuHandler handles HTTP requests for the menu catalog. Browsing is
// public; customers see the menu before logging in.
type MenuHandler struct {
	service *services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{
		service: service,
	}
}

// RegisterRoutes registers the menu routes with the Fiber app.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/", h.HandleGetMenu)
	menuRoutes.Get("/bestsellers", h.HandleGetBestsellers)
	menuRoutes.Get("/new", h.HandleGetNewItems)
	menuRoutes.Get("/:id", h.HandleGetMenuItem)
}

// HandleGetMenu retrieves available menu items, optionally by category.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	items, err := h.listItems(c.Query("category"))
	if err != nil {
		log.Printf("Error getting menu items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

func (h *MenuHandler) listItems(category string) (interface{}, error) {
	if category != "" {
		return h.service.ListByCategory(category)
	}
	return h.service.ListAvailable()
}

// HandleGetBestsellers retrieves the top-selling menu items.
func (h *MenuHandler) HandleGetBestsellers(c *fiber.Ctx) error {
	items, err := h.service.Bestsellers(c.QueryInt("limit"))
	if err != nil {
		log.Printf("Error getting bestsellers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve bestsellers",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetNewItems retrieves the newest additions to the menu.
func (h *MenuHandler) HandleGetNewItems(c *fiber.Ctx) error {
	items, err := h.service.NewItems(c.QueryInt("limit"))
	if err != nil {
		log.Printf("Error getting new menu items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve new menu items",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetMenuItem retrieves a single menu item with its addons.
func (h *MenuHandler) HandleGetMenuItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Menu item not found",
			})
		}
		log.Printf("Error getting menu item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}
