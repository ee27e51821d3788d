package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"tunazugba/internal/gateway"
	"tunazugba/internal/models"
	"tunazugba/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderPaidPublisher pushes a paid-order event onto the notification queue.
type OrderPaidPublisher interface {
	PublishOrderPaid(orderID string) error
}

// CheckoutConfig carries the gateway callback contract and the URLs the
// customer is sent back to after paying.
type CheckoutConfig struct {
	CallbackToken      string
	CallbackURL        string
	SuccessRedirectURL string
	FailureRedirectURL string
}

// CheckoutService owns the payment lifecycle: initiating a charge against
// the gateway and processing the webhook that confirms or denies it.
type CheckoutService struct {
	db           *gorm.DB
	builder      *SnapshotBuilder
	promos       *PromoService
	storeHours   *StoreHoursService
	paymentRepo  repositories.PaymentRepository
	orderRepo    repositories.OrderRepository
	gateway      gateway.Gateway
	materializer *OrderMaterializer
	publisher    OrderPaidPublisher
	cfg          CheckoutConfig
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	db *gorm.DB,
	builder *SnapshotBuilder,
	promos *PromoService,
	storeHours *StoreHoursService,
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
	gw gateway.Gateway,
	materializer *OrderMaterializer,
	publisher OrderPaidPublisher,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		db:           db,
		builder:      builder,
		promos:       promos,
		storeHours:   storeHours,
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		gateway:      gw,
		materializer: materializer,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// InitiateRequest is the checkout submission from the client. DealIDs are
// suggestions only; every promo is re-checked server side.
type InitiateRequest struct {
	Method     string     `json:"method" validate:"required,oneof=gcash paymaya"`
	OrderType  string     `json:"order_type" validate:"required,oneof=dine-in take-out pickup"`
	PickupTime *time.Time `json:"pickup_time,omitempty"`
	Notes      string     `json:"notes" validate:"max=255"`
	DealIDs    []string   `json:"deal_ids"`
}

// InitiateResult is returned to the client so it can redirect to the
// gateway's checkout page and poll the payment afterwards.
type InitiateResult struct {
	PaymentID   string      `json:"payment_id"`
	CheckoutURL string      `json:"checkout_url"`
	Totals      OrderTotals `json:"totals"`
}

var channelCodes = map[string]string{
	models.MethodGCash:   gateway.ChannelGCash,
	models.MethodPayMaya: gateway.ChannelPayMaya,
}

var orderTypes = map[string]bool{
	models.OrderDineIn:  true,
	models.OrderTakeOut: true,
	models.OrderPickup:  true,
}

// Initiate snapshots the cart, evaluates the requested deals, records a
// pending payment and creates the gateway charge. Nothing here touches
// inventory; stock is only committed when the webhook confirms payment.
func (s *CheckoutService) Initiate(ctx context.Context, user models.UserContext, req InitiateRequest) (*InitiateResult, error) {
	channel, ok := channelCodes[req.Method]
	if !ok {
		return nil, ErrUnsupportedMethod
	}
	if !orderTypes[req.OrderType] {
		return nil, ErrInvalidOrderType
	}

	now := time.Now().In(s.storeHours.Location())

	open, err := s.storeHours.IsOpen(now)
	if err != nil {
		return nil, fmt.Errorf("failed to check store hours: %w", err)
	}
	if !open {
		return nil, ErrStoreClosed
	}
	if err := s.storeHours.ValidatePickup(req.OrderType, req.PickupTime, now); err != nil {
		return nil, err
	}

	snapshot, err := s.builder.Build(user.ID)
	if err != nil {
		return nil, err
	}

	applicable, err := s.applicableDeals(req.DealIDs, user, snapshot, now)
	if err != nil {
		return nil, err
	}
	totals := ComputeOrderTotals(snapshot.Lines, applicable)

	cartJSON, err := models.EncodeCartSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	refs := make([]models.DealRef, 0, len(applicable))
	for _, p := range applicable {
		refs = append(refs, models.DealRef{ID: p.ID, Code: p.Code})
	}
	dealsJSON, err := models.EncodeDealsSnapshot(refs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deals snapshot: %w", err)
	}

	payment := &models.Payment{
		UserID:        user.ID,
		Method:        req.Method,
		Amount:        totals.Total,
		Status:        models.PaymentPending,
		OrderType:     req.OrderType,
		PickupTime:    req.PickupTime,
		Notes:         req.Notes,
		CartSnapshot:  cartJSON,
		DealsSnapshot: dealsJSON,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	reference := fmt.Sprintf("payment-%s-%s", payment.ID, randomSuffix(6))
	charge, err := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		ReferenceID:        reference,
		Amount:             totals.Total,
		ChannelCode:        channel,
		SuccessRedirectURL: s.cfg.SuccessRedirectURL,
		FailureRedirectURL: s.cfg.FailureRedirectURL,
		CallbackURL:        s.cfg.CallbackURL,
		Metadata: map[string]string{
			"payment_id": payment.ID,
		},
	})
	if err != nil {
		if markErr := s.paymentRepo.UpdateStatus(payment.ID, models.PaymentFailed); markErr != nil {
			log.Printf("Failed to mark payment %s as failed: %v", payment.ID, markErr)
		}
		return nil, &GatewayError{Err: err}
	}

	if err := s.paymentRepo.SaveReferences(payment.ID, charge.ID, charge.ReferenceID); err != nil {
		return nil, fmt.Errorf("failed to save gateway references: %w", err)
	}

	return &InitiateResult{
		PaymentID:   payment.ID,
		CheckoutURL: charge.CheckoutURL(),
		Totals:      totals,
	}, nil
}

// applicableDeals resolves the requested promo ids and keeps only the ones
// whose conditions hold right now. Unknown ids and failed conditions are
// dropped silently; checkout proceeds at full price for those.
func (s *CheckoutService) applicableDeals(dealIDs []string, user models.UserContext, snapshot *models.CartSnapshot, now time.Time) ([]models.Promo, error) {
	if len(dealIDs) == 0 {
		return nil, nil
	}
	promos, err := s.promos.GetByIDs(dealIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}
	priorOrders, err := s.orderRepo.CountByUser(s.db, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	subtotal := ComputeOrderTotals(snapshot.Lines, nil).Subtotal
	return FilterApplicable(promos, &user, priorOrders, subtotal, now), nil
}

// WebhookEvent is the gateway's charge callback payload.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID          string `json:"id"`
		ReferenceID string `json:"reference_id"`
		Status      string `json:"status"`
	} `json:"data"`
}

// Statuses the gateway reports for a completed charge. Anything else is
// acknowledged without side effects.
var paidStatuses = map[string]bool{
	"SUCCEEDED": true,
	"COMPLETED": true,
	"PAID":      true,
}

// HandleWebhook processes a gateway callback. Apart from a bad callback
// token, every outcome returns nil so the gateway stops retrying: the
// payment row records what actually happened and clients learn it by
// polling.
func (s *CheckoutService) HandleWebhook(token string, event WebhookEvent) error {
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.CallbackToken)) != 1 {
		return ErrAccessDenied
	}

	if event.Data.ReferenceID == "" && event.Data.ID == "" {
		log.Printf("Ignoring webhook without charge references")
		return nil
	}

	status := strings.ToUpper(event.Data.Status)
	if !paidStatuses[status] {
		log.Printf("Ignoring webhook with status %s for reference %s", status, event.Data.ReferenceID)
		return nil
	}

	now := time.Now().In(s.storeHours.Location())

	var paymentID, orderID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByReferenceForUpdate(tx, event.Data.ReferenceID, event.Data.ID)
		if err != nil {
			return err
		}
		if payment == nil {
			log.Printf("No payment matches webhook reference %s", event.Data.ReferenceID)
			return nil
		}
		if payment.Status == models.PaymentSuccess {
			// Duplicate delivery; the order already exists.
			log.Printf("Payment %s already succeeded, ignoring duplicate webhook", payment.ID)
			return nil
		}
		if payment.Status == models.PaymentFailed {
			log.Printf("Payment %s already failed, ignoring webhook", payment.ID)
			return nil
		}
		paymentID = payment.ID

		order, err := s.materializer.Materialize(tx, payment, event.Data.ID, now)
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		log.Printf("Failed to materialize order for payment %s: %v", paymentID, err)
		if paymentID != "" {
			if markErr := s.paymentRepo.UpdateStatus(paymentID, models.PaymentFailed); markErr != nil {
				log.Printf("Failed to mark payment %s as failed: %v", paymentID, markErr)
			}
		}
		return nil
	}

	if orderID != "" && s.publisher != nil {
		// Notification delivery is best effort; a broker outage never undoes
		// a paid order.
		if pubErr := s.publisher.PublishOrderPaid(orderID); pubErr != nil {
			log.Printf("Failed to publish order paid event for order %s: %v", orderID, pubErr)
		}
	}
	return nil
}

func randomSuffix(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return raw[:n]
}
