package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace-portal/internal/database"
	"marketplace-portal/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScannerHandler handles scanner and mapping requests
type ScannerHandler struct {
	db *database.GormDB
}

// NewScannerHandler creates a new scanner handler
func NewScannerHandler(db *database.GormDB) *ScannerHandler {
	return &ScannerHandler{db: db}
}

// List returns all scanners
func (h *ScannerHandler) List(c *gin.Context) {
	scanners, err := h.db.ListScanners()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scanners)
}

// Get returns one scanner with its active location ids
func (h *ScannerHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scanner id"})
		return
	}

	scanner, err := h.db.GetScanner(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scanner not found"})
		return
	}

	locationIDs, err := h.db.ActiveLocationIDs(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scanner":      scanner,
		"location_ids": locationIDs,
	})
}

type scannerRequest struct {
	Category    string `json:"category" binding:"required"`
	Query       string `json:"query" binding:"required"`
	LocationIDs []int  `json:"location_ids"`
}

// Create makes a scanner and materializes its location mappings.
// Unknown location ids come back in skipped_location_ids instead of
// disappearing silently.
func (h *ScannerHandler) Create(c *gin.Context) {
	var req scannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scanner := models.ActiveScanner{
		Category: req.Category,
		Query:    req.Query,
	}

	report, err := h.db.CreateScannerWithLocations(&scanner, req.LocationIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"scanner":              scanner,
		"applied_location_ids": report.AppliedLocationIDs,
		"skipped_location_ids": report.SkippedLocationIDs,
	})
}

// Update replaces a scanner's category, query and active location set.
// Status is not writable here; the scanning process owns it.
func (h *ScannerHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scanner id"})
		return
	}

	var req scannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetScanner(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scanner not found"})
		return
	}

	scanner := models.ActiveScanner{
		ID:       id,
		Category: req.Category,
		Query:    req.Query,
	}

	report, err := h.db.UpdateScannerWithLocations(&scanner, req.LocationIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.db.GetScanner(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scanner":              updated,
		"applied_location_ids": report.AppliedLocationIDs,
		"skipped_location_ids": report.SkippedLocationIDs,
	})
}

// Delete removes a scanner and its mappings
func (h *ScannerHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scanner id"})
		return
	}

	if err := h.db.DeleteScanner(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scanner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMappings returns mappings, optionally restricted to one scanner
func (h *ScannerHandler) ListMappings(c *gin.Context) {
	var scannerID *int
	if scannerIDStr := c.Query("scanner_id"); scannerIDStr != "" {
		id, err := strconv.Atoi(scannerIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scanner_id"})
			return
		}
		scannerID = &id
	}

	mappings, err := h.db.ListMappings(scannerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mappings)
}

// GetMapping returns one mapping by id
func (h *ScannerHandler) GetMapping(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mapping id"})
		return
	}

	mapping, err := h.db.GetMapping(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mapping not found"})
		return
	}

	c.JSON(http.StatusOK, mapping)
}

// UpdateMapping flips a mapping's is_active flag
func (h *ScannerHandler) UpdateMapping(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mapping id"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.SetMappingActive(id, *req.IsActive); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mapping not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mapping, err := h.db.GetMapping(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mapping)
}
