package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerParsesLevel(t *testing.T) {
	logger := NewLogger("debug")
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug, got %v", logger.GetLevel())
	}

	// Whitespace and case come straight from the environment
	logger = NewLogger(" WARN ")
	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn, got %v", logger.GetLevel())
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger := NewLogger("verbose")
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info fallback, got %v", logger.GetLevel())
	}
}
