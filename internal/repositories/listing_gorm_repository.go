package repositories

import (
	"errors"
	"fmt"

	"carmarket/internal/models"

	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// Create inserts a new listing. A slug collision with a concurrently
// committed row returns ErrDuplicateKey.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if err := r.db.Create(listing).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing.
func (r *GORMListingRepository) Update(listing *models.Listing) error {
	res := r.db.Save(listing) // Save updates all fields, including zero values
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing by its ID. Deleting a missing ID returns
// ErrNotFound so that callers can 404 instead of silently succeeding.
func (r *GORMListingRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing by ID %d: %w", id, err)
	}
	return &listing, nil
}

// GetBySlug retrieves a single listing by its public slug.
func (r *GORMListingRepository) GetBySlug(slug string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing by slug %s: %w", slug, err)
	}
	return &listing, nil
}

// GetAll retrieves all listings.
func (r *GORMListingRepository) GetAll() ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all listings: %w", err)
	}
	return listings, nil
}

// GetExcludingOwner retrieves all listings not owned by the given user.
func (r *GORMListingRepository) GetExcludingOwner(ownerID uint) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("owner_id <> ?", ownerID).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings excluding owner %d: %w", ownerID, err)
	}
	return listings, nil
}

// GetByOwner retrieves all listings owned by the given user.
func (r *GORMListingRepository) GetByOwner(ownerID uint) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("owner_id = ?", ownerID).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings for owner %d: %w", ownerID, err)
	}
	return listings, nil
}

// GetByMake retrieves up to limit listings whose make matches the given
// normalized make, optionally excluding one listing ID.
func (r *GORMListingRepository) GetByMake(carMake string, excludeID uint, limit int) ([]models.Listing, error) {
	query := r.db.Where("LOWER(make) = ?", carMake)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var listings []models.Listing
	if err := query.Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings by make %s: %w", carMake, err)
	}
	return listings, nil
}

// SlugExists reports whether any listing already uses the given slug.
func (r *GORMListingRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Listing{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return count > 0, nil
}
