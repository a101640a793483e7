package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DEFAULT_TAX_RATE", "")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DefaultTaxRate != 0.25 {
		t.Errorf("DefaultTaxRate = %v, want 0.25", cfg.DefaultTaxRate)
	}
	if cfg.GoalAggressiveRatio != 0.7 || cfg.GoalNoDeadlineMonths != 6 {
		t.Errorf("goal policy = %v/%v, want 0.7/6", cfg.GoalAggressiveRatio, cfg.GoalNoDeadlineMonths)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if !cfg.Development() {
		t.Error("empty APP_ENV should be development")
	}
}

func TestGetFloatFallsBackOnGarbage(t *testing.T) {
	t.Setenv("DEFAULT_TAX_RATE", "twenty")
	if got := getFloat("DEFAULT_TAX_RATE", 0.25); got != 0.25 {
		t.Fatalf("getFloat = %v, want fallback 0.25", got)
	}
	t.Setenv("DEFAULT_TAX_RATE", "0.3")
	if got := getFloat("DEFAULT_TAX_RATE", 0.25); got != 0.3 {
		t.Fatalf("getFloat = %v, want 0.3", got)
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "-1s")
	if got := getDuration("REQUEST_TIMEOUT", time.Second); got != time.Second {
		t.Fatalf("negative duration accepted: %v", got)
	}
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	if got := getDuration("REQUEST_TIMEOUT", time.Second); got != 750*time.Millisecond {
		t.Fatalf("getDuration = %v, want 750ms", got)
	}
}
