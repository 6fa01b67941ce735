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

// KeywordHandler handles keyword filter requests
type KeywordHandler struct {
	db *database.GormDB
}

// NewKeywordHandler creates a new keyword handler
func NewKeywordHandler(db *database.GormDB) *KeywordHandler {
	return &KeywordHandler{db: db}
}

// List returns all keywords
func (h *KeywordHandler) List(c *gin.Context) {
	keywords, err := h.db.ListKeywords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, keywords)
}

// ByScanner returns the keyword set for one scanner id. An unknown id
// yields an empty list, not an error.
func (h *KeywordHandler) ByScanner(c *gin.Context) {
	scannerIDStr := c.Query("scannerId")
	if scannerIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scanner ID is required"})
		return
	}

	scannerID, err := strconv.Atoi(scannerIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scanner ID must be an integer"})
		return
	}

	keywords, err := h.db.KeywordsByScanner(scannerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, keywords)
}

// BulkUpdate replaces the entire keyword set for a scanner. Blank
// entries are dropped and reported in skipped_blank; duplicates within
// one call are kept as separate rows.
func (h *KeywordHandler) BulkUpdate(c *gin.Context) {
	var req struct {
		ScannerID *int     `json:"scannerId"`
		Keywords  []string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ScannerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scanner ID is required"})
		return
	}

	result, err := h.db.ReplaceKeywords(*req.ScannerID, req.Keywords)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create adds a single keyword
func (h *KeywordHandler) Create(c *gin.Context) {
	var req struct {
		Keyword  string `json:"keyword" binding:"required"`
		FilterID *int   `json:"filter_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyword := models.Keyword{
		Keyword:  req.Keyword,
		FilterID: *req.FilterID,
	}

	if err := h.db.CreateKeyword(&keyword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, keyword)
}

// Delete removes one keyword by id
func (h *KeywordHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword id"})
		return
	}

	if err := h.db.DeleteKeyword(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
