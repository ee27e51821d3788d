package handlers

import (
	"log"
	"time"

	"tunazugba/internal/models"
	"tunazugba/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles HTTP requests for store hours and status.
type SettingsHandler struct {
	service  *services.StoreHoursService
	validate *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *services.StoreHoursService) *SettingsHandler {
	return &SettingsHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the store status route, available without
// authentication so clients can show open/closed before login.
func (h *SettingsHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/store/status", h.HandleGetStatus)
}

// RegisterRoutes registers the settings management routes.
func (h *SettingsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/store/settings", h.HandleGetSettings)
	router.Put("/store/settings", h.HandleUpdateSettings)
}

// HandleGetStatus reports whether the store is accepting orders right now.
func (h *SettingsHandler) HandleGetStatus(c *fiber.Ctx) error {
	now := time.Now().In(h.service.Location())
	open, err := h.service.IsOpen(now)
	if err != nil {
		log.Printf("Error checking store status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not check store status",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"open": open})
}

// HandleGetSettings retrieves the store settings.
func (h *SettingsHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Settings()
	if err != nil {
		log.Printf("Error loading store settings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve settings",
			"error":   err.Error(),
		})
	}
	return c.JSON(settings)
}

// HandleUpdateSettings replaces the store settings.
func (h *SettingsHandler) HandleUpdateSettings(c *fiber.Ctx) error {
	var setting models.StoreSetting
	if err := c.BodyParser(&setting); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(setting); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.Save(&setting); err != nil {
		log.Printf("Error saving store settings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save settings",
			"error":   err.Error(),
		})
	}
	return c.JSON(setting)
}
