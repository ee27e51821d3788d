package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"tunazugba/internal/gateway"
	"tunazugba/internal/handlers"
	"tunazugba/internal/middleware"
	"tunazugba/internal/models"
	"tunazugba/internal/repositories"
	"tunazugba/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const webhookToken = "integration-test-token"

type stubGateway struct {
	lastReferenceID string
}

func (g *stubGateway) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	g.lastReferenceID = req.ReferenceID
	return &gateway.ChargeResult{
		ID:                 "ewc_test",
		ReferenceID:        req.ReferenceID,
		DesktopCheckoutURL: "https://checkout.example/pay",
	}, nil
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	gateway *stubGateway
	item    *models.MenuItem
}

// setupApp builds the full HTTP surface against in-memory SQLite with a stub
// payment gateway and no message broker.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.MenuItem{}, &models.Addon{},
		&models.CartLine{}, &models.CartAddon{}, &models.Promo{},
		&models.Payment{}, &models.Order{}, &models.OrderItem{},
		&models.OrderItemAddon{}, &models.OrderDeal{},
		&models.Notification{}, &models.StoreSetting{},
	))

	userRepo := repositories.NewGORMUserRepository(db)
	menuRepo := repositories.NewGORMMenuRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	promoRepo := repositories.NewGORMPromoRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)

	require.NoError(t, storeRepo.Save(&models.StoreSetting{
		IsOpen:      true,
		OpeningTime: "00:00",
		ClosingTime: "23:59",
		Timezone:    "UTC",
	}))

	item := &models.MenuItem{Name: "Tuna Zugba Plate", Category: "grilled", Price: decimal.RequireFromString("95.00"), Stock: 10}
	require.NoError(t, menuRepo.CreateItem(item))

	gw := &stubGateway{}

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	menuService := services.NewMenuService(menuRepo)
	cartService := services.NewCartService(db, cartRepo, menuRepo)
	promoService := services.NewPromoService(db, promoRepo, orderRepo)
	storeHours := services.NewStoreHoursService(storeRepo)
	builder := services.NewSnapshotBuilder(cartRepo, menuRepo)
	materializer := services.NewOrderMaterializer(menuRepo, orderRepo, cartRepo, paymentRepo, promoRepo, userRepo)
	checkoutService := services.NewCheckoutService(
		db, builder, promoService, storeHours,
		paymentRepo, orderRepo, gw, materializer, nil,
		services.CheckoutConfig{CallbackToken: webhookToken},
	)
	orderService := services.NewOrderService(orderRepo, paymentRepo)
	notificationService := services.NewNotificationService(orderRepo, userRepo, notificationRepo, nil, nil)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewMenuHandler(menuService).RegisterRoutes(apiV1)
	settingsHandler := handlers.NewSettingsHandler(storeHours)
	settingsHandler.RegisterPublicRoutes(apiV1)
	paymentHandler := handlers.NewPaymentHandler(checkoutService, orderService)
	paymentHandler.RegisterWebhookRoutes(apiV1)

	authed := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewCartHandler(cartService).RegisterRoutes(authed)
	handlers.NewPromoHandler(promoService, cartService, storeHours).RegisterRoutes(authed)
	paymentHandler.RegisterRoutes(authed)
	handlers.NewOrderHandler(orderService).RegisterRoutes(authed)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(authed)
	settingsHandler.RegisterRoutes(authed)

	return &testEnv{app: app, db: db, gateway: gw, item: item}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name":         "Juan Dela Cruz",
		"email":        "juan@example.com",
		"phone_number": "09171234567",
		"password":     "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "juan@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestAuth_RegisterLoginAndReject(t *testing.T) {
	env := setupApp(t)
	token := env.registerAndLogin(t)
	assert.NotEmpty(t, token)

	// Duplicate email conflicts.
	resp := env.request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name":         "Someone Else",
		"email":        "juan@example.com",
		"phone_number": "09170000000",
		"password":     "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password.
	resp = env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "juan@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupApp(t)

	resp := env.request(t, http.MethodGet, "/api/v1/cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/cart/", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestMenuAndStoreStatusArePublic(t *testing.T) {
	env := setupApp(t)

	resp := env.request(t, http.MethodGet, "/api/v1/menu/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []models.MenuItem
	decodeBody(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Tuna Zugba Plate", items[0].Name)

	resp = env.request(t, http.MethodGet, "/api/v1/store/status", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		Open bool `json:"open"`
	}
	decodeBody(t, resp, &status)
	assert.True(t, status.Open)
}

func TestCheckoutRoundTrip(t *testing.T) {
	env := setupApp(t)
	token := env.registerAndLogin(t)

	// Add to cart.
	resp := env.request(t, http.MethodPost, "/api/v1/cart/", token, fiber.Map{
		"menu_item_id": env.item.ID,
		"quantity":     2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart struct {
		Lines  []models.CartLine `json:"lines"`
		Totals struct {
			Subtotal decimal.Decimal `json:"subtotal"`
		} `json:"totals"`
	}
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Lines, 1)
	assert.True(t, cart.Totals.Subtotal.Equal(decimal.RequireFromString("190.00")))

	// Initiate payment.
	resp = env.request(t, http.MethodPost, "/api/v1/payments/", token, fiber.Map{
		"method":     "gcash",
		"order_type": "dine-in",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var initiated struct {
		PaymentID   string `json:"payment_id"`
		CheckoutURL string `json:"checkout_url"`
	}
	decodeBody(t, resp, &initiated)
	assert.Equal(t, "https://checkout.example/pay", initiated.CheckoutURL)

	webhookBody := fiber.Map{
		"event": "ewallet.capture",
		"data": fiber.Map{
			"id":           "ewc_test",
			"reference_id": env.gateway.lastReferenceID,
			"status":       "SUCCEEDED",
		},
	}

	// Wrong callback token is the one rejected webhook outcome.
	req, err := http.NewRequest(http.MethodPost, "/api/v1/webhooks/xendit", marshalBody(t, webhookBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-callback-token", "forged")
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Genuine webhook confirms the payment.
	req, err = http.NewRequest(http.MethodPost, "/api/v1/webhooks/xendit", marshalBody(t, webhookBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-callback-token", webhookToken)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Poll the payment.
	resp = env.request(t, http.MethodGet, "/api/v1/payments/"+initiated.PaymentID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var polled struct {
		Status  string  `json:"status"`
		OrderID *string `json:"order_id"`
	}
	decodeBody(t, resp, &polled)
	assert.Equal(t, models.PaymentSuccess, polled.Status)
	require.NotNil(t, polled.OrderID)

	// The order shows up in history with the snapshotted line.
	resp = env.request(t, http.MethodGet, "/api/v1/orders/"+*polled.OrderID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// Cart is now empty.
	resp = env.request(t, http.MethodGet, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var emptied struct {
		Lines []models.CartLine `json:"lines"`
	}
	decodeBody(t, resp, &emptied)
	assert.Empty(t, emptied.Lines)
}

func TestInitiate_EmptyCartRejected(t *testing.T) {
	env := setupApp(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/v1/payments/", token, fiber.Map{
		"method":     "gcash",
		"order_type": "dine-in",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestInitiate_ValidationRejectsBadMethod(t *testing.T) {
	env := setupApp(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/v1/payments/", token, fiber.Map{
		"method":     "cash",
		"order_type": "dine-in",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOrders_ForeignOrderHidden(t *testing.T) {
	env := setupApp(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodGet, "/api/v1/orders/some-other-order", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func marshalBody(t *testing.T, body interface{}) io.Reader {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(encoded)
}
