package service

import (
	"errors"

	"digistore/internal/domain/user/model"
	"digistore/internal/domain/user/repository"
	"digistore/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAuthFailed   = errors.New("invalid username or password")
	ErrUserDisabled = errors.New("account disabled")
)

type UserService interface {
	Login(username, password string) (string, error)
	EnsureAdmin(username, password string) error
	GetByID(id string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Login checks credentials and issues a signed session token.
func (s *userService) Login(username, password string) (string, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same error as a wrong password, no account probing
			return "", ErrAuthFailed
		}
		return "", err
	}

	if user.Status != model.StatusNormal {
		return "", ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	return token, err
}

// EnsureAdmin creates the admin account if absent. Used by the seeder;
// running it twice is a no-op.
func (s *userService) EnsureAdmin(username, password string) error {
	_, err := s.repo.GetByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.Create(&model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Status:       model.StatusNormal,
	})
}

func (s *userService) GetByID(id string) (*model.User, error) {
	return s.repo.GetByID(id)
}
