package handlers

import (
	"errors"
	"log"

	"tunazugba/internal/middleware"
	"tunazugba/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for checkout and the gateway webhook.
type PaymentHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(checkout *services.CheckoutService, orders *services.OrderService) *PaymentHandler {
	return &PaymentHandler{
		checkout: checkout,
		orders:   orders,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the authenticated payment routes.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/", h.HandleInitiate)
	paymentRoutes.Get("/:id", h.HandlePaymentStatus)
}

// RegisterWebhookRoutes registers the public gateway callback. The route
// carries no JWT; it is authenticated by the callback token header instead.
func (h *PaymentHandler) RegisterWebhookRoutes(router fiber.Router) {
	router.Post("/webhooks/xendit", h.HandleWebhook)
}

// HandleInitiate starts checkout: snapshots the cart, creates a pending
// payment and returns the gateway checkout URL.
func (h *PaymentHandler) HandleInitiate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req services.InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.checkout.Initiate(c.Context(), user, req)
	if err != nil {
		return checkoutError(c, user.ID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandlePaymentStatus reports a payment's state so the client can poll after
// the gateway redirect.
func (h *PaymentHandler) HandlePaymentStatus(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	status, err := h.orders.PaymentStatus(user, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Payment not found",
			})
		}
		log.Printf("Error reading payment status for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve payment status",
			"error":   err.Error(),
		})
	}
	return c.JSON(status)
}

// HandleWebhook processes the gateway's payment callback. Any outcome other
// than a bad callback token is acknowledged with 200 so the gateway stops
// retrying; the payment row records what actually happened.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	var event services.WebhookEvent
	if err := c.BodyParser(&event); err != nil {
		log.Printf("Error parsing webhook body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid webhook body",
		})
	}

	if err := h.checkout.HandleWebhook(c.Get("x-callback-token"), event); err != nil {
		if errors.Is(err, services.ErrAccessDenied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid callback token",
			})
		}
		log.Printf("Webhook processing error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Webhook processing failed",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func checkoutError(c *fiber.Ctx, userID string, err error) error {
	log.Printf("Checkout failed for user %s: %v", userID, err)

	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Insufficient stock",
			"error":   stockErr.Error(),
		})
	}
	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Payment gateway error, please try again",
			"error":   gatewayErr.Error(),
		})
	}

	switch {
	case errors.Is(err, services.ErrCartEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart is empty",
		})
	case errors.Is(err, services.ErrStoreClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Store is currently closed",
		})
	case errors.Is(err, services.ErrInvalidPickupTime):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pickup time",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrUnsupportedMethod),
		errors.Is(err, services.ErrInvalidOrderType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not initiate payment",
		"error":   err.Error(),
	})
}
