package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"marketplace-portal/internal/cleanup"
	"marketplace-portal/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *gorm.DB
	cleanupService *cleanup.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:             db,
		cleanupService: cleanup.NewService(db),
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	var listingCount, watchlistCount int64
	h.db.Model(&models.Listing{}).Count(&listingCount)
	h.db.Model(&models.Listing{}).Where("watchlist = ?", true).Count(&watchlistCount)

	// Recent scraping activity (last 24 hours)
	last24h := time.Now().AddDate(0, 0, -1)
	var recentListings int64
	h.db.Model(&models.Listing{}).Where("created_at >= ?", last24h).Count(&recentListings)

	stats["listings"] = map[string]interface{}{
		"total":          listingCount,
		"watchlist":      watchlistCount,
		"added_last_24h": recentListings,
	}

	// Scanner counts by status
	var statusCounts []struct {
		Status string
		Count  int64
	}
	h.db.Model(&models.ActiveScanner{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts)

	statusMap := make(map[string]int64)
	for _, sc := range statusCounts {
		statusMap[sc.Status] = sc.Count
	}
	stats["scanners"] = statusMap

	var keywordCount int64
	h.db.Model(&models.Keyword{}).Count(&keywordCount)
	stats["keywords"] = map[string]interface{}{
		"total": keywordCount,
	}

	deleteStats, err := h.cleanupService.GetDeleteStats()
	if err != nil {
		log.Printf("Failed to get delete stats: %v", err)
	} else {
		stats["deletions"] = deleteStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns recently ingested listings
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	var listings []models.Listing
	err := h.db.Order("created_at DESC").Limit(limit).Find(&listings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetCategoryStats returns listing counts grouped by category
func (h *AdminHandler) GetCategoryStats(c *gin.Context) {
	type CategoryStat struct {
		Category string `json:"category"`
		Count    int64  `json:"count"`
	}

	var stats []CategoryStat
	err := h.db.Model(&models.Listing{}).
		Select("search_title as category, count(*) as count").
		Where("search_title IS NOT NULL AND search_title != ''").
		Group("search_title").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category_stats": stats,
		"count":          len(stats),
	})
}

// GetPriceDistribution returns listing counts per price band
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	type PriceRange struct {
		RangeLabel string  `json:"range_label"`
		MinPrice   float64 `json:"min_price"`
		MaxPrice   float64 `json:"max_price"`
		Count      int64   `json:"count"`
	}

	ranges := []PriceRange{
		{RangeLabel: "under $25", MinPrice: 0, MaxPrice: 25},
		{RangeLabel: "$25-$50", MinPrice: 25, MaxPrice: 50},
		{RangeLabel: "$50-$100", MinPrice: 50, MaxPrice: 100},
		{RangeLabel: "$100-$250", MinPrice: 100, MaxPrice: 250},
		{RangeLabel: "$250-$500", MinPrice: 250, MaxPrice: 500},
		{RangeLabel: "$500+", MinPrice: 500, MaxPrice: 100000000},
	}

	for i := range ranges {
		var count int64
		h.db.Model(&models.Listing{}).
			Where("price_amount >= ? AND price_amount < ?", ranges[i].MinPrice, ranges[i].MaxPrice).
			Count(&count)
		ranges[i].Count = count
	}

	c.JSON(http.StatusOK, gin.H{
		"price_distribution": ranges,
	})
}

// RunCleanup executes physical deletion of old listings
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`
		MaxDeletionCount int  `json:"max_deletion_count"`
		DryRun           bool `json:"dry_run"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := cleanup.DefaultConfig()
	if req.RetentionDays > 0 {
		cfg.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = req.MaxDeletionCount
	}
	cfg.DryRun = req.DryRun

	log.Printf("Admin: Running cleanup (retention: %d days, max: %d, dry-run: %v)",
		cfg.RetentionDays, cfg.MaxDeletionCount, cfg.DryRun)

	result, err := h.cleanupService.Run(cfg)
	if err != nil {
		log.Printf("Admin: Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Admin: Cleanup completed: %d/%d deleted (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.DryRun)

	c.JSON(http.StatusOK, result)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentDeleteLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}
