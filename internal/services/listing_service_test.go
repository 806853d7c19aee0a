package services_test

import (
	"testing"

	"carmarket/internal/models"
	"carmarket/internal/repositories"
	"carmarket/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishListingEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func TestListingService_SaveNewAssignsSlug(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	service := services.NewListingService(repo, nil)

	listing := service.Create("Toyota", "Corolla", 2020, 15000, 1, "")
	assert.Empty(t, listing.Slug, "slug must not be assigned before save")

	assert.NoError(t, service.Save(listing))
	assert.Equal(t, "toyota-corolla-2020", listing.Slug)
	assert.NotZero(t, listing.ID)
}

func TestListingService_SaveTwiceSameTripleGetsDistinctSlugs(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	service := services.NewListingService(repo, nil)

	first := service.Create("Toyota", "Corolla", 2020, 15000, 1, "")
	second := service.Create("Toyota", "Corolla", 2020, 14000, 2, "")

	assert.NoError(t, service.Save(first))
	assert.NoError(t, service.Save(second))

	assert.Equal(t, "toyota-corolla-2020", first.Slug)
	assert.Equal(t, "toyota-corolla-2020-1", second.Slug)
}

func TestListingService_UpdateKeepsSlugWhenIdentityUnchanged(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	service := services.NewListingService(repo, nil)

	listing := service.Create("Toyota", "Corolla", 2020, 15000, 1, "")
	assert.NoError(t, service.Save(listing))
	originalSlug := listing.Slug

	listing.Price = 13999
	assert.NoError(t, service.Save(listing))
	assert.Equal(t, originalSlug, listing.Slug)
}

func TestListingService_UpdateRegeneratesSlugWhenIdentityChanged(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	service := services.NewListingService(repo, nil)

	listing := service.Create("Toyota", "Corolla", 2020, 15000, 1, "")
	assert.NoError(t, service.Save(listing))

	listing.Year = 2021
	assert.NoError(t, service.Save(listing))
	assert.Equal(t, "toyota-corolla-2021", listing.Slug)

	stored, err := repo.GetByID(listing.ID)
	assert.NoError(t, err)
	assert.Equal(t, "toyota-corolla-2021", stored.Slug)
}

func TestListingService_UpdateMissingListing(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	service := services.NewListingService(repo, nil)

	ghost := &models.Listing{ID: 42, Make: "Ford", Model: "Focus", Year: 2015, Price: 1, OwnerID: 1}
	assert.ErrorIs(t, service.Save(ghost), services.ErrListingNotFound)
}

// racingRepo simulates a concurrent writer that commits the probed slug
// between the existence check and the save: the probe always reports free
// while the underlying store already holds the slug.
type racingRepo struct {
	*repositories.MockListingRepository
}

func (r racingRepo) SlugExists(string) (bool, error) {
	return false, nil
}

func TestListingService_ConcurrentSlugClaimSurfacesAsSlugTaken(t *testing.T) {
	inner := repositories.NewMockListingRepository()
	service := services.NewListingService(racingRepo{inner}, nil)

	winner := &models.Listing{Make: "Toyota", Model: "Corolla", Year: 2020, Price: 1, Slug: "toyota-corolla-2020", OwnerID: 1}
	assert.NoError(t, inner.Create(winner))

	loser := service.Create("Toyota", "Corolla", 2020, 2, 2, "")
	err := service.Save(loser)
	assert.ErrorIs(t, err, services.ErrSlugTaken)

	// The losing save must not have altered the store
	all, getErr := inner.GetAll()
	assert.NoError(t, getErr)
	assert.Len(t, all, 1)
}

func TestListingService_Delete(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	service := services.NewListingService(repo, nil)

	listing := service.Create("Honda", "Civic", 2018, 9000, 1, "")
	assert.NoError(t, service.Save(listing))

	assert.NoError(t, service.Delete(listing.ID))

	gone, err := service.GetByID(listing.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)

	// Deleting the same ID again reports the absence explicitly
	assert.ErrorIs(t, service.Delete(listing.ID), services.ErrListingNotFound)
}

func TestListingService_PublishesLifecycleEvents(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	mockMQ := new(MockEventPublisher)
	service := services.NewListingService(repo, mockMQ)

	mockMQ.On("PublishListingEvent", "listing.created", mock.Anything).Return(nil).Once()
	listing := service.Create("Toyota", "Corolla", 2020, 15000, 1, "")
	assert.NoError(t, service.Save(listing))

	mockMQ.On("PublishListingEvent", "listing.updated", mock.Anything).Return(nil).Once()
	listing.Price = 14000
	assert.NoError(t, service.Save(listing))

	mockMQ.On("PublishListingEvent", "listing.deleted", mock.Anything).Return(nil).Once()
	assert.NoError(t, service.Delete(listing.ID))

	mockMQ.AssertExpectations(t)
}

func TestListingService_PublishFailureDoesNotFailSave(t *testing.T) {
	repo := repositories.NewMockListingRepository()
	mockMQ := new(MockEventPublisher)
	service := services.NewListingService(repo, mockMQ)

	mockMQ.On("PublishListingEvent", "listing.created", mock.Anything).Return(assert.AnError).Once()

	listing := service.Create("Toyota", "Corolla", 2020, 15000, 1, "")
	assert.NoError(t, service.Save(listing))
	mockMQ.AssertExpectations(t)
}
