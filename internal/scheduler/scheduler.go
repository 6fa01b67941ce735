package scheduler

import (
	"fmt"
	"log"

	"marketplace-portal/internal/cleanup"
	"marketplace-portal/internal/config"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs the daily listing retention cleanup.
type Scheduler struct {
	cron      *cron.Cron
	cleanup   *cleanup.Service
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *gorm.DB, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		cleanup: cleanup.NewService(db),
		config:  cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Cleanup.DailyRunEnabled {
		log.Println("Scheduler: Daily cleanup is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Cleanup.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily cleanup job...")
		if err := s.runCleanup(); err != nil {
			log.Printf("Scheduler: Daily cleanup failed: %v", err)
		} else {
			log.Println("Scheduler: Daily cleanup completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily cleanup at %s (cron: %s)", s.config.Cleanup.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

func (s *Scheduler) runCleanup() error {
	cfg := cleanup.DefaultConfig()
	if s.config.Cleanup.RetentionDays > 0 {
		cfg.RetentionDays = s.config.Cleanup.RetentionDays
	}
	if s.config.Cleanup.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = s.config.Cleanup.MaxDeletionCount
	}

	result, err := s.cleanup.Run(cfg)
	if err != nil {
		return err
	}

	log.Printf("Scheduler: Cleanup removed %d/%d listings (%d errors)",
		result.DeletedCount, result.TargetCount, result.ErrorCount)
	return nil
}

// RunNow immediately executes the cleanup job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting cleanup job...")
	return s.runCleanup()
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "03:00" -> "0 3 * * *" (run at 3:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 03:00", timeStr)
	return "0 3 * * *"
}
