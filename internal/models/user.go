package models

import "time"

// User represents a registered member of the marketplace.
type User struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"type:varchar(80);not null" validate:"required,max=80"`
	Email string `json:"email" gorm:"uniqueIndex;type:varchar(256);not null" validate:"required,email"`
	// PasswordHash holds the bcrypt hash of the user's password.
	// No json output for security; the plaintext is never stored.
	PasswordHash string    `json:"-" gorm:"type:varchar(256);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
