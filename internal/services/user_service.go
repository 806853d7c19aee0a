package services

import (
	"errors"
	"fmt"

	"carmarket/internal/models"
	"carmarket/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns the user entity lifecycle: credential hashing and
// verification, lookups, and persistence.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// SetPassword derives a salted bcrypt hash from the plaintext and stores it
// on the user. The plaintext is never persisted or logged.
func (s *UserService) SetPassword(user *models.User, plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return nil
}

// CheckPassword reports whether the plaintext matches the user's stored
// hash. A mismatch is an ordinary false result, never an error.
func (s *UserService) CheckPassword(user *models.User, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

// GetByEmail retrieves a user by exact email match; nil when absent.
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

// GetByID retrieves a user by ID; nil when absent.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

// Save inserts the user when it has no ID yet, otherwise updates it. The
// signup flow pre-checks email uniqueness, so a duplicate here means a
// concurrent signup won the race; it surfaces as ErrEmailTaken either way.
func (s *UserService) Save(user *models.User) error {
	var err error
	if user.ID == 0 {
		err = s.repo.Create(user)
	} else {
		err = s.repo.Update(user)
	}
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrEmailTaken
	}
	return err
}
