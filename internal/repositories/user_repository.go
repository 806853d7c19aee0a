package repositories

import "carmarket/internal/models"

// UserRepository defines the interface for user data access.
// GetByEmail and GetByID return a nil user when no row matches; absence is
// an ordinary outcome, not an error.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}
