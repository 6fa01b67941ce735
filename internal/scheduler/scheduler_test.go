package scheduler

import (
	"testing"

	"marketplace-portal/internal/config"
)

func TestParseDailyRunTime(t *testing.T) {
	s := &Scheduler{config: config.DefaultConfig()}

	tests := []struct {
		in   string
		want string
	}{
		{"03:00", "0 3 * * *"},
		{"04:30", "30 4 * * *"},
		{"23:59", "59 23 * * *"},
		{"0:05", "5 0 * * *"},
		{"not-a-time", "0 3 * * *"},
		{"", "0 3 * * *"},
	}

	for _, tt := range tests {
		if got := s.parseDailyRunTime(tt.in); got != tt.want {
			t.Errorf("parseDailyRunTime(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestStartDisabledIsNoop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cleanup.DailyRunEnabled = false

	s := NewScheduler(nil, cfg)
	if err := s.Start(); err != nil {
		t.Fatalf("Start with cleanup disabled should not fail: %v", err)
	}
	if s.isRunning {
		t.Error("scheduler should not be running when cleanup is disabled")
	}
	s.Stop()
}
