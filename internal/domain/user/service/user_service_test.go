package service

import (
	"testing"

	"digistore/internal/domain/user/model"
	"digistore/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func createTestUser(username, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Status:       model.StatusNormal,
	}
	u.ID = "user-1"
	return u
}

func TestLogin(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "test-secret-test-secret-test-secret!"
	config.GlobalConfig.JWT.Expire = 24

	t.Run("Valid credentials return a token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByUsername", "admin").Return(createTestUser("admin", "secret123"), nil)

		token, err := service.Login("admin", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Wrong password rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByUsername", "admin").Return(createTestUser("admin", "secret123"), nil)

		token, err := service.Login("admin", "wrong")

		assert.ErrorIs(t, err, ErrAuthFailed)
		assert.Empty(t, token)
	})

	t.Run("Unknown user gets the same error as wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Login("ghost", "whatever")

		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("Disabled account rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		user := createTestUser("admin", "secret123")
		user.Status = model.StatusDisabled
		mockRepo.On("GetByUsername", "admin").Return(user, nil)

		_, err := service.Login("admin", "secret123")

		assert.ErrorIs(t, err, ErrUserDisabled)
	})
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("Creates admin when absent", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByUsername", "admin").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

		err := service.EnsureAdmin("admin", "secret123")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Existing admin is a no-op", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByUsername", "admin").Return(createTestUser("admin", "secret123"), nil)

		err := service.EnsureAdmin("admin", "other-password")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}
