package models

import "time"

// Listing represents a car advertised for sale by a user.
type Listing struct {
	ID    uint    `json:"id" gorm:"primaryKey"`
	Make  string  `json:"make" gorm:"type:varchar(80);not null" validate:"required,max=80"`
	Model string  `json:"model" gorm:"type:varchar(80);not null" validate:"required,max=80"`
	Year  int     `json:"year" gorm:"not null" validate:"required,gte=1900,lte=2100"`
	Price float64 `json:"price" gorm:"not null" validate:"gte=0"`
	// Slug is the public, URL-safe identifier derived from make/model/year.
	// It is assigned by the listing service on save, never by callers.
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(150);not null"`
	// ImageRef is the reference returned by the blob storage backend.
	// Empty when no image was uploaded.
	ImageRef  string    `json:"image_ref,omitempty" gorm:"type:varchar(255)"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
