package services_test

import (
	"fmt"
	"testing"

	"tunazugba/internal/models"
	"tunazugba/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(tx *gorm.DB, order *models.Order) error {
	args := m.Called(tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItem(tx *gorm.DB, item *models.OrderItem) error {
	args := m.Called(tx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItemAddon(tx *gorm.DB, addon *models.OrderItemAddon) error {
	args := m.Called(tx, addon)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderDeal(tx *gorm.DB, deal *models.OrderDeal) error {
	args := m.Called(tx, deal)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByUser(tx *gorm.DB, userID string) (int64, error) {
	args := m.Called(tx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUser(userID, orderID string) (*models.Order, error) {
	args := m.Called(userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListForUser(userID string, limit int) ([]models.Order, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockNotificationRepository is a mock implementation of
// repositories.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForUser(userID string, limit int) ([]models.Notification, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of notify.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockSMSSender is a mock implementation of notify.SMSSender.
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(number, message string) error {
	args := m.Called(number, message)
	return args.Error(0)
}

func notificationFixtures() (*models.Order, *models.User) {
	order := &models.Order{
		ID:          "order-1",
		UserID:      "user-1",
		TotalAmount: decimal.RequireFromString("190.00"),
		Status:      models.OrderPending,
	}
	user := &models.User{
		ID:          "user-1",
		Name:        "Juan",
		Email:       "juan@example.com",
		PhoneNumber: "09171234567",
	}
	return order, user
}

func TestHandleOrderPaid_AllChannels(t *testing.T) {
	order, user := notificationFixtures()

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	mailer := new(MockMailer)
	sms := new(MockSMSSender)

	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	userRepo.On("GetByID", "user-1").Return(user, nil).Once()
	mailer.On("Send", "juan@example.com", mock.Anything, mock.Anything).Return(nil).Once()
	sms.On("Send", "09171234567", mock.Anything).Return(nil).Once()
	notificationRepo.On("Create", mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "user-1" && n.Type == models.NotificationOrder
	})).Return(nil).Once()

	service := services.NewNotificationService(orderRepo, userRepo, notificationRepo, mailer, sms)

	assert.NoError(t, service.HandleOrderPaid("order-1"))

	orderRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
	sms.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestHandleOrderPaid_EmailFailureDoesNotBlockOthers(t *testing.T) {
	order, user := notificationFixtures()

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	mailer := new(MockMailer)
	sms := new(MockSMSSender)

	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	userRepo.On("GetByID", "user-1").Return(user, nil).Once()
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("smtp connection refused")).Once()
	sms.On("Send", "09171234567", mock.Anything).Return(nil).Once()
	notificationRepo.On("Create", mock.Anything).Return(nil).Once()

	service := services.NewNotificationService(orderRepo, userRepo, notificationRepo, mailer, sms)

	assert.NoError(t, service.HandleOrderPaid("order-1"),
		"a provider outage must not requeue the event")

	sms.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestHandleOrderPaid_FeedWriteFailureReturnsError(t *testing.T) {
	order, user := notificationFixtures()

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	mailer := new(MockMailer)
	sms := new(MockSMSSender)

	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	userRepo.On("GetByID", "user-1").Return(user, nil).Once()
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	sms.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	notificationRepo.On("Create", mock.Anything).Return(fmt.Errorf("db write failed")).Once()

	service := services.NewNotificationService(orderRepo, userRepo, notificationRepo, mailer, sms)

	assert.Error(t, service.HandleOrderPaid("order-1"),
		"the in-app record is the durable channel and must be retried")
}

func TestHandleOrderPaid_MissingOrderDropped(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByID", "gone").Return(nil, gorm.ErrRecordNotFound).Once()

	service := services.NewNotificationService(orderRepo, new(MockUserRepository),
		new(MockNotificationRepository), new(MockMailer), new(MockSMSSender))

	assert.NoError(t, service.HandleOrderPaid("gone"),
		"an event for a deleted order must be acked, not requeued forever")
}

func TestHandleOrderPaid_SkipsMissingContactChannels(t *testing.T) {
	order, user := notificationFixtures()
	user.Email = ""
	user.PhoneNumber = ""

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	mailer := new(MockMailer)
	sms := new(MockSMSSender)

	orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
	userRepo.On("GetByID", "user-1").Return(user, nil).Once()
	notificationRepo.On("Create", mock.Anything).Return(nil).Once()

	service := services.NewNotificationService(orderRepo, userRepo, notificationRepo, mailer, sms)

	assert.NoError(t, service.HandleOrderPaid("order-1"))

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
