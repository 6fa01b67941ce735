package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"marketplace-portal/internal/database"
	"marketplace-portal/internal/models"
	"marketplace-portal/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingHandler handles listing CRUD and the filter layer
type ListingHandler struct {
	gormDB       *database.GormDB
	legacyDB     *database.DB
	searchClient *search.SearchClient
}

// NewListingHandler creates a new listing handler
func NewListingHandler(gormDB *database.GormDB, legacyDB *database.DB, searchClient *search.SearchClient) *ListingHandler {
	return &ListingHandler{
		gormDB:       gormDB,
		legacyDB:     legacyDB,
		searchClient: searchClient,
	}
}

// List returns the filtered, paginated listing set, newest first.
//
// Unparseable numeric parameters disable their filter instead of
// failing the request. The watchlist parameter only takes effect when
// it equals "true" (case-insensitive); "watchlist=false" applies no
// filter at all. That asymmetry matches the shipped client and stays
// until product says otherwise.
func (h *ListingHandler) List(c *gin.Context) {
	if h.gormDB == nil {
		// Legacy fallback: no filtering (should not be reached in production)
		listings, err := h.legacyDB.GetAllListings()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, listings)
		return
	}

	filters := database.ListingFilters{
		Query:          c.Query("query"),
		Category:       c.Query("category"),
		SearchLocation: c.Query("search_location"),
	}

	// Older clients send scanner_location
	if filters.SearchLocation == "" {
		filters.SearchLocation = c.Query("scanner_location")
	}

	if maxDistanceStr := c.Query("max_distance"); maxDistanceStr != "" {
		if maxDistance, parseErr := strconv.Atoi(maxDistanceStr); parseErr == nil && maxDistance >= 0 {
			filters.MaxDistance = &maxDistance
		}
	}

	if minPriceStr := c.Query("min_price"); minPriceStr != "" {
		if minPrice, parseErr := strconv.ParseFloat(minPriceStr, 64); parseErr == nil {
			filters.MinPrice = &minPrice
		}
	}
	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		if maxPrice, parseErr := strconv.ParseFloat(maxPriceStr, 64); parseErr == nil {
			filters.MaxPrice = &maxPrice
		}
	}

	if watchlist := c.Query("watchlist"); strings.EqualFold(watchlist, "true") {
		filters.WatchlistOnly = true
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if page, parseErr := strconv.Atoi(pageStr); parseErr == nil && page > 0 {
			filters.Page = page
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, parseErr := strconv.Atoi(limitStr); parseErr == nil && limit > 0 {
			filters.Limit = limit
		}
	}

	page, err := h.gormDB.ListListings(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get returns one listing by index
func (h *ListingHandler) Get(c *gin.Context) {
	idx, err := strconv.ParseInt(c.Param("idx"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing index"})
		return
	}

	if h.gormDB == nil {
		listing, err := h.legacyDB.GetListingByIdx(idx)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusOK, listing)
		return
	}

	listing, err := h.gormDB.GetListing(idx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

type listingRequest struct {
	Price          string `json:"price"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Distance       *int   `json:"distance"`
	URL            string `json:"url"`
	Img            string `json:"img"`
	Query          string `json:"query"`
	SearchTitle    string `json:"search_title"`
	SearchLocation string `json:"search_location"`
	ScannerID      *int   `json:"scanner_id"`
	Watchlist      bool   `json:"watchlist"`
}

// Create ingests a new listing. This is the write path used by the
// external scraping process; the price magnitude is parsed here, once.
func (h *ListingHandler) Create(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing := models.Listing{
		Price:          req.Price,
		Title:          req.Title,
		Description:    req.Description,
		Distance:       req.Distance,
		URL:            req.URL,
		Img:            req.Img,
		Query:          req.Query,
		SearchTitle:    req.SearchTitle,
		SearchLocation: req.SearchLocation,
		ScannerID:      req.ScannerID,
		Watchlist:      req.Watchlist,
	}

	var err error
	if h.gormDB != nil {
		err = h.gormDB.SaveListing(&listing)
	} else {
		err = h.legacyDB.SaveListing(&listing)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.searchClient != nil {
		if err := h.searchClient.IndexListing(&listing); err != nil {
			log.Printf("Warning: Failed to index listing %d: %v", listing.ListingIdx, err)
		}
	}

	c.JSON(http.StatusCreated, listing)
}

type listingUpdateRequest struct {
	Price          *string `json:"price"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Distance       *int    `json:"distance"`
	URL            *string `json:"url"`
	Img            *string `json:"img"`
	Query          *string `json:"query"`
	SearchTitle    *string `json:"search_title"`
	SearchLocation *string `json:"search_location"`
	ScannerID      *int    `json:"scanner_id"`
	Watchlist      *bool   `json:"watchlist"`
}

// Update applies a partial update to a listing
func (h *ListingHandler) Update(c *gin.Context) {
	if h.gormDB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Listing updates require MySQL/GORM"})
		return
	}

	idx, err := strconv.ParseInt(c.Param("idx"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing index"})
		return
	}

	var req listingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.gormDB.GetListing(idx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Distance != nil {
		listing.Distance = req.Distance
	}
	if req.URL != nil {
		listing.URL = *req.URL
	}
	if req.Img != nil {
		listing.Img = *req.Img
	}
	if req.Query != nil {
		listing.Query = *req.Query
	}
	if req.SearchTitle != nil {
		listing.SearchTitle = *req.SearchTitle
	}
	if req.SearchLocation != nil {
		listing.SearchLocation = *req.SearchLocation
	}
	if req.ScannerID != nil {
		listing.ScannerID = req.ScannerID
	}
	if req.Watchlist != nil {
		listing.Watchlist = *req.Watchlist
	}

	if err := h.gormDB.UpdateListing(listing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.searchClient != nil {
		if err := h.searchClient.IndexListing(listing); err != nil {
			log.Printf("Warning: Failed to re-index listing %d: %v", listing.ListingIdx, err)
		}
	}

	c.JSON(http.StatusOK, listing)
}

// Watchlist flips the watchlist flag on a listing
func (h *ListingHandler) Watchlist(c *gin.Context) {
	if h.gormDB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Watchlist requires MySQL/GORM"})
		return
	}

	idx, err := strconv.ParseInt(c.Param("idx"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing index"})
		return
	}

	var req struct {
		Watchlist *bool `json:"watchlist" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gormDB.SetWatchlist(idx, *req.Watchlist); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_idx": idx,
		"watchlist":   *req.Watchlist,
	})
}

// Delete removes a listing
func (h *ListingHandler) Delete(c *gin.Context) {
	if h.gormDB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Listing deletion requires MySQL/GORM"})
		return
	}

	idx, err := strconv.ParseInt(c.Param("idx"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing index"})
		return
	}

	if err := h.gormDB.DeleteListing(idx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.searchClient != nil {
		if err := h.searchClient.DeleteListing(strconv.FormatInt(idx, 10)); err != nil {
			log.Printf("Warning: Failed to remove listing %d from index: %v", idx, err)
		}
	}

	c.Status(http.StatusNoContent)
}

// FilterOptions returns the distinct filter values currently present
// across all listings. Recomputed per call; the scraper writes
// continuously.
func (h *ListingHandler) FilterOptions(c *gin.Context) {
	if h.gormDB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Filter options require MySQL/GORM"})
		return
	}

	opts, err := h.gormDB.GetFilterOptions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, opts)
}

// Search performs full-text search over the Meilisearch index
func (h *ListingHandler) Search(c *gin.Context) {
	if h.searchClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not available"})
		return
	}

	query := c.Query("q")
	limitStr := c.DefaultQuery("limit", "20")

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = 20
	}

	listings, err := h.searchClient.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listings)
}
