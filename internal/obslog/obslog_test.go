package obslog

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
)

func TestNewAppliesConfiguredLevel(t *testing.T) {
	logger := New(&config.Config{LogLevel: "debug"})
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", logger.GetLevel())
	}
}

func TestNewFallsBackToInfoOnUnknownLevel(t *testing.T) {
	logger := New(&config.Config{LogLevel: "not-a-level"})
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level fallback, got %v", logger.GetLevel())
	}
}
