package repositories

import (
	"sort"
	"strings"
	"sync"

	"carmarket/internal/models"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
// It enforces the same slug uniqueness rule as the relational store so that
// services can be tested against realistic conflict behavior.
type MockListingRepository struct {
	listings map[uint]models.Listing
	nextID   uint
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[uint]models.Listing),
		nextID:   1,
	}
}

// Create adds a new listing, assigning an ID when none is set.
func (r *MockListingRepository) Create(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTakenLocked(listing.Slug, 0) {
		return ErrDuplicateKey
	}
	if listing.ID == 0 {
		listing.ID = r.nextID
		r.nextID++
	} else if listing.ID >= r.nextID {
		r.nextID = listing.ID + 1
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Update modifies an existing listing.
func (r *MockListingRepository) Update(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return ErrNotFound
	}
	if r.slugTakenLocked(listing.Slug, listing.ID) {
		return ErrDuplicateKey
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Delete removes a listing by its ID.
func (r *MockListingRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

// GetByID returns a listing by its ID, or nil when it does not exist.
func (r *MockListingRepository) GetByID(id uint) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	return &listing, nil
}

// GetBySlug returns a listing by its slug, or nil when it does not exist.
func (r *MockListingRepository) GetBySlug(slug string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, listing := range r.listings {
		if listing.Slug == slug {
			l := listing
			return &l, nil
		}
	}
	return nil, nil
}

// GetAll returns all listings in ID order.
func (r *MockListingRepository) GetAll() ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filterLocked(func(models.Listing) bool { return true }, 0), nil
}

// GetExcludingOwner returns all listings not owned by the given user.
func (r *MockListingRepository) GetExcludingOwner(ownerID uint) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filterLocked(func(l models.Listing) bool { return l.OwnerID != ownerID }, 0), nil
}

// GetByOwner returns all listings owned by the given user.
func (r *MockListingRepository) GetByOwner(ownerID uint) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filterLocked(func(l models.Listing) bool { return l.OwnerID == ownerID }, 0), nil
}

// GetByMake returns up to limit listings with the given normalized make,
// optionally excluding one listing ID.
func (r *MockListingRepository) GetByMake(carMake string, excludeID uint, limit int) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filterLocked(func(l models.Listing) bool {
		return l.ID != excludeID && strings.ToLower(strings.TrimSpace(l.Make)) == carMake
	}, limit), nil
}

// SlugExists reports whether any listing already uses the given slug.
func (r *MockListingRepository) SlugExists(slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slugTakenLocked(slug, 0), nil
}

// slugTakenLocked reports whether slug is used by a listing other than
// selfID. Callers must hold the mutex.
func (r *MockListingRepository) slugTakenLocked(slug string, selfID uint) bool {
	for _, listing := range r.listings {
		if listing.Slug == slug && listing.ID != selfID {
			return true
		}
	}
	return false
}

// filterLocked collects matching listings in ID order. A limit of 0 means
// no cap. Callers must hold the mutex.
func (r *MockListingRepository) filterLocked(match func(models.Listing) bool, limit int) []models.Listing {
	ids := make([]uint, 0, len(r.listings))
	for id := range r.listings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		if listing := r.listings[id]; match(listing) {
			result = append(result, listing)
			if limit > 0 && len(result) == limit {
				break
			}
		}
	}
	return result
}
