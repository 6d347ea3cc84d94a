package logging

import "testing"

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger == nil {
		t.Fatal("Expected non-nil logger")
	}
	logger.Info("test message")
}

func TestNewLogger_ConsoleEncoding(t *testing.T) {
	t.Setenv("LOG_ENCODING", "console")
	t.Setenv("LOG_LEVEL", "debug")

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("debug message")
}

func TestNewLogger_InvalidLevelFallsBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "not-a-level")

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger == nil {
		t.Fatal("Expected non-nil logger")
	}
}
