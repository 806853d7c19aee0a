package services

import (
	"strings"

	"carmarket/internal/models"
	"carmarket/internal/repositories"
)

// DefaultSimilarLimit caps similar-make lookups when the caller does not
// ask for a specific limit.
const DefaultSimilarLimit = 5

// QueryService exposes the read-only listing queries behind the browse,
// profile and detail pages. All methods tolerate zero results and return an
// empty slice, never an error, for absence. Result order is the store
// default; no sort is imposed.
type QueryService struct {
	repo repositories.ListingRepository
}

// NewQueryService creates a new QueryService.
func NewQueryService(repo repositories.ListingRepository) *QueryService {
	return &QueryService{
		repo: repo,
	}
}

// ListAll retrieves every listing.
func (s *QueryService) ListAll() ([]models.Listing, error) {
	return s.repo.GetAll()
}

// ListExcludingOwner retrieves every listing not owned by the given user.
// Together with ListByOwner it partitions ListAll exactly.
func (s *QueryService) ListExcludingOwner(ownerID uint) ([]models.Listing, error) {
	return s.repo.GetExcludingOwner(ownerID)
}

// ListByOwner retrieves every listing owned by the given user.
func (s *QueryService) ListByOwner(ownerID uint) ([]models.Listing, error) {
	return s.repo.GetByOwner(ownerID)
}

// GetBySlug retrieves a listing by its public slug; nil when absent.
func (s *QueryService) GetBySlug(slug string) (*models.Listing, error) {
	return s.repo.GetBySlug(slug)
}

// FindSimilarByMake retrieves listings of the same make, matched
// case-insensitively on the trimmed make, excluding the given listing ID
// when nonzero. A limit <= 0 falls back to DefaultSimilarLimit.
func (s *QueryService) FindSimilarByMake(carMake string, excludeID uint, limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	normalized := strings.ToLower(strings.TrimSpace(carMake))
	return s.repo.GetByMake(normalized, excludeID, limit)
}
