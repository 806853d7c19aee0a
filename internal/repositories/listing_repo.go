package repositories

import "carmarket/internal/models"

// ListingRepository defines the interface for listing data access.
// The Get* methods return a nil listing when no row matches. The list
// methods return results in store-default order and an empty slice when
// nothing matches. GetByMake expects an already normalized (trimmed,
// lowercased) make and matches case-insensitively; excludeID 0 excludes
// nothing. SlugExists is the existence probe injected into slug generation.
type ListingRepository interface {
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	Delete(id uint) error
	GetByID(id uint) (*models.Listing, error)
	GetBySlug(slug string) (*models.Listing, error)
	GetAll() ([]models.Listing, error)
	GetExcludingOwner(ownerID uint) ([]models.Listing, error)
	GetByOwner(ownerID uint) ([]models.Listing, error)
	GetByMake(carMake string, excludeID uint, limit int) ([]models.Listing, error)
	SlugExists(slug string) (bool, error)
}
