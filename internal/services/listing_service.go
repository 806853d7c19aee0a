package services

import (
	"errors"
	"fmt"
	"log"

	"carmarket/internal/models"
	"carmarket/internal/repositories"
	"carmarket/internal/slug"
)

// EventPublisher publishes listing lifecycle events to the message broker.
type EventPublisher interface {
	PublishListingEvent(event string, payload map[string]interface{}) error
}

// ListingService owns the listing lifecycle: construction, slug assignment,
// persistence and deletion. It composes the slug generator with the
// repository's existence probe.
type ListingService struct {
	repo     repositories.ListingRepository
	mqClient EventPublisher // may be nil, e.g. in tests
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository, mqClient EventPublisher) *ListingService {
	return &ListingService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// Create builds a new listing entity from already validated values. The
// slug is deliberately left empty until Save so that generation runs
// against the live slug set at commit time.
func (s *ListingService) Create(carMake, carModel string, year int, price float64, ownerID uint, imageRef string) *models.Listing {
	return &models.Listing{
		Make:     carMake,
		Model:    carModel,
		Year:     year,
		Price:    price,
		ImageRef: imageRef,
		OwnerID:  ownerID,
	}
}

// Save persists the listing. A new listing gets a freshly generated slug;
// an existing one keeps its slug unless make, model or year changed, in
// which case it is regenerated the same way. A uniqueness violation on
// commit means a concurrent writer claimed the slug between the existence
// probe and the write; it surfaces as ErrSlugTaken and is not retried here.
func (s *ListingService) Save(listing *models.Listing) error {
	if listing.ID == 0 {
		generated, err := slug.Generate(listing.Make, listing.Model, listing.Year, s.repo.SlugExists)
		if err != nil {
			return err
		}
		listing.Slug = generated

		if err := s.repo.Create(listing); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrSlugTaken
			}
			return err
		}
		s.publish("listing.created", listing)
		return nil
	}

	stored, err := s.repo.GetByID(listing.ID)
	if err != nil {
		return fmt.Errorf("failed to load listing %d: %w", listing.ID, err)
	}
	if stored == nil {
		return ErrListingNotFound
	}

	if stored.Make != listing.Make || stored.Model != listing.Model || stored.Year != listing.Year {
		generated, err := slug.Generate(listing.Make, listing.Model, listing.Year, s.repo.SlugExists)
		if err != nil {
			return err
		}
		listing.Slug = generated
	} else {
		listing.Slug = stored.Slug
	}

	if err := s.repo.Update(listing); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrSlugTaken
		}
		return err
	}
	s.publish("listing.updated", listing)
	return nil
}

// GetByID retrieves a listing by ID; nil when absent. Routes use it to
// load the entity before the ownership check.
func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	return s.repo.GetByID(id)
}

// Delete removes the listing with the given ID. Callers MUST have verified
// that the acting user owns the listing before invoking this; the check is
// not repeated here. Deleting a missing ID returns ErrListingNotFound.
func (s *ListingService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	s.publish("listing.deleted", &models.Listing{ID: id})
	return nil
}

// publish sends a lifecycle event. Publishing is best-effort: a broker
// failure is logged and never fails the persistence operation that
// already committed.
func (s *ListingService) publish(event string, listing *models.Listing) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"listing_id": listing.ID,
		"slug":       listing.Slug,
		"owner_id":   listing.OwnerID,
	}
	if err := s.mqClient.PublishListingEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for listing %d: %v", event, listing.ID, err)
	}
}
