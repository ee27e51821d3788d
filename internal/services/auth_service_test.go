package services_test

import (
	"fmt"
	"testing"

	"tunazugba/internal/models"
	"tunazugba/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterUser_HashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	user := &models.User{Name: "Juan", Email: "juan@example.com", Password: "plaintext"}

	mockRepo.On("GetByEmail", "juan@example.com").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Password != "plaintext" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("plaintext")) == nil
	})).Return(nil).Once()

	assert.NoError(t, service.RegisterUser(user))
	mockRepo.AssertExpectations(t)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	existing := &models.User{ID: "user-1", Email: "juan@example.com"}
	mockRepo.On("GetByEmail", "juan@example.com").Return(existing, nil).Once()

	err := service.RegisterUser(&models.User{Email: "juan@example.com", Password: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLoginAndValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{
		ID:          "user-1",
		Name:        "Juan",
		Email:       "juan@example.com",
		PhoneNumber: "09171234567",
		Password:    string(hashed),
	}

	mockRepo.On("GetByEmail", "juan@example.com").Return(user, nil).Once()

	token, err := service.LoginUser("juan@example.com", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	ctx, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", ctx.ID)
	assert.Equal(t, "Juan", ctx.Name)
	assert.Equal(t, "09171234567", ctx.PhoneNumber)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "juan@example.com", Password: string(hashed)}

	mockRepo.On("GetByEmail", "juan@example.com").Return(user, nil).Once()

	_, err := service.LoginUser("juan@example.com", "wrong")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockRepo := new(MockUserRepository)
	issuer := services.NewAuthService(mockRepo, "secret-a")
	verifier := services.NewAuthService(mockRepo, "secret-b")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "juan@example.com", Password: string(hashed)}
	mockRepo.On("GetByEmail", "juan@example.com").Return(user, nil).Once()

	token, err := issuer.LoginUser("juan@example.com", "secret123")
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
