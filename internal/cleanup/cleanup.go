package cleanup

import (
	"fmt"
	"log"
	"time"

	"marketplace-portal/internal/models"

	"gorm.io/gorm"
)

// Service physically deletes stale listings once they age out of the
// retention window. Watchlisted listings are never touched.
type Service struct {
	db *gorm.DB
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Config holds configuration for one cleanup run
type Config struct {
	RetentionDays    int  // Days to keep listings before physical deletion (default: 90)
	MaxDeletionCount int  // Maximum number of listings to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

// DefaultConfig returns default cleanup configuration
func DefaultConfig() Config {
	return Config{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// Result holds the outcome of a cleanup run
type Result struct {
	TargetCount  int       `json:"target_count"`
	DeletedCount int       `json:"deleted_count"`
	ErrorCount   int       `json:"error_count"`
	DryRun       bool      `json:"dry_run"`
	ExecutedAt   time.Time `json:"executed_at"`
	DeletedIdxs  []int64   `json:"deleted_idxs"`
	Errors       []string  `json:"errors,omitempty"`
}

// FindExpiredListings finds listings eligible for physical deletion:
// older than retentionDays and not on anyone's watchlist.
func (s *Service) FindExpiredListings(retentionDays int) ([]models.Listing, error) {
	var listings []models.Listing

	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	err := s.db.Where("watchlist = ? AND created_at < ?", false, cutoffDate).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired listings: %w", err)
	}

	log.Printf("Found %d listings created before %s", len(listings), cutoffDate.Format("2006-01-02"))
	return listings, nil
}

// Run performs physical deletion of expired listings, logging each
// deletion to delete_logs in the same transaction.
func (s *Service) Run(cfg Config) (*Result, error) {
	result := &Result{
		DryRun:     cfg.DryRun,
		ExecutedAt: time.Now(),
	}

	expired, err := s.FindExpiredListings(cfg.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(expired)

	if result.TargetCount == 0 {
		log.Println("No expired listings found for deletion")
		return result, nil
	}

	// Safety check: abort if too many listings would be deleted
	if result.TargetCount > cfg.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d listings exceed max deletion limit of %d",
			result.TargetCount, cfg.MaxDeletionCount)
	}

	log.Printf("Starting cleanup: %d listings to delete (retention: %d days, dry-run: %v)",
		result.TargetCount, cfg.RetentionDays, cfg.DryRun)

	for _, listing := range expired {
		if cfg.DryRun {
			log.Printf("[DRY-RUN] Would delete listing %d (Title: %s)",
				listing.ListingIdx, listing.Title)
			result.DeletedIdxs = append(result.DeletedIdxs, listing.ListingIdx)
			result.DeletedCount++
			continue
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			deleteLog := models.DeleteLog{
				ListingIdx: listing.ListingIdx,
				Title:      listing.Title,
				URL:        listing.URL,
				Reason:     models.DeleteReasonExpired,
			}
			if err := tx.Create(&deleteLog).Error; err != nil {
				return err
			}
			return tx.Delete(&listing).Error
		})
		if err != nil {
			errMsg := fmt.Sprintf("Failed to delete listing %d: %v", listing.ListingIdx, err)
			log.Printf("ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		result.DeletedIdxs = append(result.DeletedIdxs, listing.ListingIdx)
		result.DeletedCount++
	}

	log.Printf("Cleanup completed: %d/%d deleted, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, cfg.DryRun)

	return result, nil
}

// GetDeleteStats returns statistics about deleted listings
func (s *Service) GetDeleteStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalDeleted int64
	if err := s.db.Model(&models.DeleteLog{}).Count(&totalDeleted).Error; err != nil {
		return nil, err
	}
	stats["total_deleted"] = totalDeleted

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := s.db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	var recentDeleted int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentDeleted).Error; err != nil {
		return nil, err
	}
	stats["deleted_last_30_days"] = recentDeleted

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(limit int) ([]models.DeleteLog, error) {
	var logs []models.DeleteLog
	err := s.db.Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
