package handlers

import (
	"errors"
	"io"
	"log"

	"carmarket/internal/middleware"
	"carmarket/internal/models"
	"carmarket/internal/services"
	"carmarket/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for car listings.
type ListingHandler struct {
	listings *services.ListingService
	queries  *services.QueryService
	uploader storage.Uploader // may be nil when uploads are disabled
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listings *services.ListingService, queries *services.QueryService, uploader storage.Uploader) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		queries:  queries,
		uploader: uploader,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the listing routes. Browse and detail are
// public (browse resolves the acting user when a token is present);
// everything that mutates or filters by ownership requires a logged-in
// user. Auth is attached per route so the public routes stay reachable
// without a token.
func (h *ListingHandler) RegisterRoutes(router fiber.Router, authOptional, authRequired fiber.Handler) {
	router.Get("/listings", authOptional, h.HandleBrowseListings)
	router.Get("/listings/:slug", h.HandleListingDetail)

	router.Get("/my/listings", authRequired, h.HandleMyListings)
	router.Post("/listings", authRequired, h.HandleCreateListing)
	router.Put("/listings/:id<int>", authRequired, h.HandleUpdateListing)
	router.Delete("/listings/:id<int>", authRequired, h.HandleDeleteListing)
}

// ListingRequest represents the request body for creating or updating a
// listing. Fields arrive either as JSON or as multipart form values (the
// latter when an image is attached).
type ListingRequest struct {
	Make  string  `json:"make" form:"make" validate:"required,max=80"`
	Model string  `json:"model" form:"model" validate:"required,max=80"`
	Year  int     `json:"year" form:"year" validate:"required,gte=1900,lte=2100"`
	Price float64 `json:"price" form:"price" validate:"gte=0"`
}

// HandleBrowseListings returns listings for the index page. Anonymous
// visitors see everything; an authenticated user sees everyone else's
// listings but not their own.
func (h *ListingHandler) HandleBrowseListings(c *fiber.Ctx) error {
	var (
		listings []models.Listing
		err      error
	)
	if userID := middleware.ActingUserID(c); userID != 0 {
		listings, err = h.queries.ListExcludingOwner(userID)
	} else {
		listings, err = h.queries.ListAll()
	}
	if err != nil {
		log.Printf("Error browsing listings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve listings",
		})
	}
	return c.JSON(listings)
}

// HandleListingDetail returns one listing by slug plus up to five similar
// listings of the same make.
func (h *ListingHandler) HandleListingDetail(c *fiber.Ctx) error {
	slug := c.Params("slug")
	listing, err := h.queries.GetBySlug(slug)
	if err != nil {
		log.Printf("Error getting listing by slug %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve listing",
		})
	}
	if listing == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Listing not found",
		})
	}

	similar, err := h.queries.FindSimilarByMake(listing.Make, listing.ID, 0)
	if err != nil {
		log.Printf("Error getting similar listings for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve similar listings",
		})
	}

	return c.JSON(fiber.Map{
		"listing": listing,
		"similar": similar,
	})
}

// HandleMyListings returns the authenticated user's own listings.
func (h *ListingHandler) HandleMyListings(c *fiber.Ctx) error {
	listings, err := h.queries.ListByOwner(middleware.ActingUserID(c))
	if err != nil {
		log.Printf("Error getting own listings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve listings",
		})
	}
	return c.JSON(listings)
}

// HandleCreateListing creates a new listing owned by the acting user.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	req, imageRef, resp := h.parseListingRequest(c)
	if req == nil {
		return resp
	}

	listing := h.listings.Create(req.Make, req.Model, req.Year, req.Price, middleware.ActingUserID(c), imageRef)
	if err := h.listings.Save(listing); err != nil {
		return h.saveError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateListing updates a listing after verifying the acting user
// owns it. The service itself does not repeat the ownership check.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	listing, resp := h.loadOwnedListing(c)
	if listing == nil {
		return resp
	}

	req, imageRef, resp := h.parseListingRequest(c)
	if req == nil {
		return resp
	}

	listing.Make = req.Make
	listing.Model = req.Model
	listing.Year = req.Year
	listing.Price = req.Price
	if imageRef != "" {
		listing.ImageRef = imageRef
	}

	if err := h.listings.Save(listing); err != nil {
		return h.saveError(c, err)
	}
	return c.JSON(listing)
}

// HandleDeleteListing deletes a listing after verifying the acting user
// owns it.
func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	listing, resp := h.loadOwnedListing(c)
	if listing == nil {
		return resp
	}

	if err := h.listings.Delete(listing.ID); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Listing not found",
			})
		}
		log.Printf("Error deleting listing %d: %v", listing.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete listing",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Listing deleted successfully",
	})
}

// loadOwnedListing resolves the :id parameter and enforces that the acting
// user owns the listing: 404 for a missing ID (before any ownership
// comparison), 403 for somebody else's listing. A nil listing means the
// error response has already been written; callers return the accompanying
// error as-is.
func (h *ListingHandler) loadOwnedListing(c *fiber.Ctx) (*models.Listing, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid listing id",
		})
	}

	listing, err := h.listings.GetByID(uint(id))
	if err != nil {
		log.Printf("Error loading listing %d: %v", id, err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve listing",
		})
	}
	if listing == nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Listing not found",
		})
	}
	if listing.OwnerID != middleware.ActingUserID(c) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not own this listing",
		})
	}
	return listing, nil
}

// parseListingRequest binds and validates the listing fields and uploads
// the optional image, returning its storage reference. A nil request means
// the error response has already been written.
func (h *ListingHandler) parseListingRequest(c *fiber.Ctx) (*ListingRequest, string, error) {
	var req ListingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing listing request body: %v", err)
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		// No image attached; the field is optional
		return &req, "", nil
	}
	if h.uploader == nil {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image uploads are disabled",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("Error opening uploaded image %s: %v", file.Filename, err)
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Printf("Error reading uploaded image %s: %v", file.Filename, err)
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
		})
	}

	imageRef, err := h.uploader.Upload(c.Context(), file.Filename, data)
	if err != nil {
		log.Printf("Error storing uploaded image %s: %v", file.Filename, err)
		return nil, "", c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not store uploaded image",
		})
	}
	return &req, imageRef, nil
}

// saveError maps listing save failures to HTTP responses.
func (h *ListingHandler) saveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSlugTaken):
		// A concurrent writer claimed the generated slug between the
		// uniqueness probe and the commit. Retrying is the client's call.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Could not save listing",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrListingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Listing not found",
		})
	default:
		log.Printf("Error saving listing: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save listing",
		})
	}
}
