package handlers

import (
	"log"

	"tunazugba/internal/middleware"
	"tunazugba/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for the in-app notification feed.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/notifications")
	routes.Get("/", h.HandleGetNotifications)
	routes.Patch("/:id/read", h.HandleMarkRead)
}

// HandleGetNotifications retrieves the user's notification feed.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	notifications, err := h.service.ListForUser(user, c.QueryInt("limit"))
	if err != nil {
		log.Printf("Error listing notifications for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(notifications)
}

// HandleMarkRead marks one notification as read.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.service.MarkRead(user, c.Params("id")); err != nil {
		log.Printf("Error marking notification read for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update notification",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
