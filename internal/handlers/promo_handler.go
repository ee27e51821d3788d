package handlers

import (
	"log"
	"time"

	"tunazugba/internal/middleware"
	"tunazugba/internal/models"
	"tunazugba/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PromoHandler handles HTTP requests for promotional deals.
type PromoHandler struct {
	promos *services.PromoService
	carts  *services.CartService
	hours  *services.StoreHoursService
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(promos *services.PromoService, carts *services.CartService, hours *services.StoreHoursService) *PromoHandler {
	return &PromoHandler{
		promos: promos,
		carts:  carts,
		hours:  hours,
	}
}

// RegisterRoutes registers the deals routes with the Fiber app.
func (h *PromoHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/deals", h.HandleGetDeals)
}

// DealView is one active promo annotated with whether the caller's current
// cart qualifies for it right now.
type DealView struct {
	models.Promo
	Applicable bool `json:"applicable"`
}

// HandleGetDeals lists active deals with per-user applicability against the
// selected cart lines. The flags are advisory; checkout re-checks every
// promo before honoring it.
func (h *PromoHandler) HandleGetDeals(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	promos, err := h.promos.ListActive()
	if err != nil {
		log.Printf("Error listing deals: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve deals",
			"error":   err.Error(),
		})
	}

	view, err := h.carts.List(user)
	if err != nil {
		log.Printf("Error loading cart for deals check, user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve deals",
			"error":   err.Error(),
		})
	}

	now := time.Now().In(h.hours.Location())
	deals := make([]DealView, 0, len(promos))
	for _, promo := range promos {
		applicable, err := h.promos.Applies(promo, &user, view.Totals.Subtotal, now)
		if err != nil {
			log.Printf("Error checking deal %s for user %s: %v", promo.Code, user.ID, err)
			applicable = false
		}
		deals = append(deals, DealView{Promo: promo, Applicable: applicable})
	}
	return c.JSON(deals)
}
