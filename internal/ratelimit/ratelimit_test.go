package ratelimit

import "testing"

func TestAllowWithinLimits(t *testing.T) {
	l := NewLimiter(3, 0, 0, true)

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should have been admitted", i)
		}
	}
	if l.Allow() {
		t.Error("fourth request in the same minute should be rejected")
	}
}

func TestDisabledLimiterAdmitsEverything(t *testing.T) {
	l := NewLimiter(1, 1, 1, false)

	for i := 0; i < 10; i++ {
		if !l.Allow() {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}

	stats := l.GetStats()
	if stats.Enabled {
		t.Error("stats should report the limiter disabled")
	}
}

func TestZeroLimitDisablesWindow(t *testing.T) {
	l := NewLimiter(0, 0, 2, true)

	if !l.Allow() || !l.Allow() {
		t.Fatal("first two requests should pass")
	}
	if l.Allow() {
		t.Error("daily cap of 2 should reject the third request")
	}
}

func TestGetStats(t *testing.T) {
	l := NewLimiter(10, 100, 1000, true)

	l.Allow()
	l.Allow()

	stats := l.GetStats()
	if !stats.Enabled {
		t.Fatal("expected enabled stats")
	}
	if stats.RequestsLastMinute != 2 || stats.RequestsLastHour != 2 || stats.RequestsLastDay != 2 {
		t.Errorf("expected 2 requests in every window, got %+v", stats)
	}
	if stats.LimitPerMinute != 10 || stats.LimitPerHour != 100 || stats.LimitPerDay != 1000 {
		t.Errorf("unexpected limits in stats: %+v", stats)
	}
}

func TestReset(t *testing.T) {
	l := NewLimiter(1, 0, 0, true)

	if !l.Allow() {
		t.Fatal("first request should pass")
	}
	if l.Allow() {
		t.Fatal("second request should be rejected")
	}

	l.Reset()
	if !l.Allow() {
		t.Error("request after reset should pass")
	}
}
