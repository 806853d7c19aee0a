package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"carmarket/internal/models"
	"carmarket/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens a fresh in-memory SQLite database for one test. The DSN is
// keyed by test name so parallel tests never share state, and TranslateError
// is enabled exactly as in production so uniqueness violations surface as
// gorm.ErrDuplicatedKey.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Listing{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo repositories.UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Seed User", Email: email, PasswordHash: "x"}
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func TestGORMUserRepository_CreateAndLookup(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
	assert.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, byID)
	assert.Equal(t, "Alice", byID.Name)

	// Absence is a nil result, not an error
	missing, err := repo.GetByEmail("nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGORMUserRepository_DuplicateEmail(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	assert.NoError(t, repo.Create(&models.User{Name: "Alice", Email: "dup@example.com", PasswordHash: "a"}))
	err := repo.Create(&models.User{Name: "Bob", Email: "dup@example.com", PasswordHash: "b"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
}

func TestGORMListingRepository_CreateUpdateDelete(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, repositories.NewGORMUserRepository(db), "owner@example.com")
	repo := repositories.NewGORMListingRepository(db)

	listing := &models.Listing{
		Make: "Toyota", Model: "Corolla", Year: 2020, Price: 15000,
		Slug: "toyota-corolla-2020", OwnerID: owner.ID,
	}
	assert.NoError(t, repo.Create(listing))
	assert.NotZero(t, listing.ID)

	listing.Price = 14500
	assert.NoError(t, repo.Update(listing))

	stored, err := repo.GetByID(listing.ID)
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, 14500.0, stored.Price)

	assert.NoError(t, repo.Delete(listing.ID))

	gone, err := repo.GetByID(listing.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGORMListingRepository_DeleteMissingID(t *testing.T) {
	repo := repositories.NewGORMListingRepository(setupDB(t))
	assert.ErrorIs(t, repo.Delete(9999), repositories.ErrNotFound)
}

func TestGORMListingRepository_DuplicateSlugOnCommit(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, repositories.NewGORMUserRepository(db), "owner@example.com")
	repo := repositories.NewGORMListingRepository(db)

	first := &models.Listing{Make: "Toyota", Model: "Corolla", Year: 2020, Price: 1, Slug: "toyota-corolla-2020", OwnerID: owner.ID}
	assert.NoError(t, repo.Create(first))

	// A second writer that probed before the first commit would try the
	// same slug; the constraint, not the probe, settles the race.
	second := &models.Listing{Make: "Toyota", Model: "Corolla", Year: 2020, Price: 2, Slug: "toyota-corolla-2020", OwnerID: owner.ID}
	assert.ErrorIs(t, repo.Create(second), repositories.ErrDuplicateKey)

	all, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGORMListingRepository_SlugExists(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, repositories.NewGORMUserRepository(db), "owner@example.com")
	repo := repositories.NewGORMListingRepository(db)

	taken, err := repo.SlugExists("ford-focus-2015")
	assert.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, repo.Create(&models.Listing{Make: "Ford", Model: "Focus", Year: 2015, Price: 1, Slug: "ford-focus-2015", OwnerID: owner.ID}))

	taken, err = repo.SlugExists("ford-focus-2015")
	assert.NoError(t, err)
	assert.True(t, taken)
}

func TestGORMListingRepository_OwnerQueriesPartitionAll(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	alice := seedUser(t, userRepo, "alice@example.com")
	bob := seedUser(t, userRepo, "bob@example.com")
	repo := repositories.NewGORMListingRepository(db)

	seed := []models.Listing{
		{Make: "Toyota", Model: "Corolla", Year: 2020, Price: 1, Slug: "toyota-corolla-2020", OwnerID: alice.ID},
		{Make: "Ford", Model: "Focus", Year: 2015, Price: 2, Slug: "ford-focus-2015", OwnerID: bob.ID},
		{Make: "Honda", Model: "Civic", Year: 2018, Price: 3, Slug: "honda-civic-2018", OwnerID: bob.ID},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	all, err := repo.GetAll()
	assert.NoError(t, err)
	mine, err := repo.GetByOwner(alice.ID)
	assert.NoError(t, err)
	others, err := repo.GetExcludingOwner(alice.ID)
	assert.NoError(t, err)

	assert.Len(t, mine, 1)
	assert.Len(t, others, 2)
	assert.ElementsMatch(t, all, append(mine, others...))
}

func TestGORMListingRepository_GetByOwnerEmpty(t *testing.T) {
	repo := repositories.NewGORMListingRepository(setupDB(t))

	listings, err := repo.GetByOwner(5)
	assert.NoError(t, err)
	assert.Empty(t, listings)
}

func TestGORMListingRepository_GetByMake(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, repositories.NewGORMUserRepository(db), "owner@example.com")
	repo := repositories.NewGORMListingRepository(db)

	seed := []models.Listing{
		{Make: "Toyota", Model: "Corolla", Year: 2020, Price: 1, Slug: "toyota-corolla-2020", OwnerID: owner.ID},
		{Make: "TOYOTA", Model: "Camry", Year: 2019, Price: 2, Slug: "toyota-camry-2019", OwnerID: owner.ID},
		{Make: "Ford", Model: "Focus", Year: 2015, Price: 3, Slug: "ford-focus-2015", OwnerID: owner.ID},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	// Case-insensitive match against the already normalized make
	matches, err := repo.GetByMake("toyota", 0, 5)
	assert.NoError(t, err)
	assert.Len(t, matches, 2)

	// Excluding a listing removes it from its own similar list
	matches, err = repo.GetByMake("toyota", seed[0].ID, 5)
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, "Camry", matches[0].Model)

	// Limit caps the result
	matches, err = repo.GetByMake("toyota", 0, 1)
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
}
