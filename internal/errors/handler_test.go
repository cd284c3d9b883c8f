package errors

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withTempLogDir(t *testing.T) string {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "logs")
	t.Setenv("STACKFORGE_LOG_DIR", logPath)
	return logPath
}

func TestNewErrorHandler(t *testing.T) {
	withTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}
	if handler == nil {
		t.Fatal("NewErrorHandler() returned nil handler")
	}
	if handler.logger == nil {
		t.Error("ErrorHandler.logger is nil")
	}
	if handler.console == nil {
		t.Error("ErrorHandler.console is nil")
	}
}

func TestErrorHandler_Handle_StructuredError(t *testing.T) {
	logPath := withTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	testErr := NewConfigNotFoundError(
		"Test context",
		"Test cause",
		"Test suggestion",
		errors.New("original error"),
	)
	handler.Handle(testErr)

	logFile := filepath.Join(logPath, "stackforge.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "config_not_found") {
		t.Errorf("log entry should carry the error type, got: %s", data)
	}
	if !strings.Contains(string(data), "Test context") {
		t.Errorf("log entry should carry the context, got: %s", data)
	}
}

func TestErrorHandler_Handle_GenericError(t *testing.T) {
	logPath := withTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	handler.Handle(errors.New("plain failure"))

	data, err := os.ReadFile(filepath.Join(logPath, "stackforge.log"))
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "plain failure") {
		t.Errorf("log entry should carry the error message, got: %s", data)
	}
}

func TestErrorHandler_Handle_Nil(t *testing.T) {
	withTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	// Must not panic or log anything.
	handler.Handle(nil)
}

func TestGetDefaultHandler_Singleton(t *testing.T) {
	withTempLogDir(t)
	resetDefaultHandler()
	t.Cleanup(resetDefaultHandler)

	first, err := GetDefaultHandler()
	if err != nil {
		t.Fatalf("GetDefaultHandler() failed: %v", err)
	}
	second, err := GetDefaultHandler()
	if err != nil {
		t.Fatalf("GetDefaultHandler() failed: %v", err)
	}
	if first != second {
		t.Error("GetDefaultHandler() should return the same instance")
	}
}

func TestStackForgeError_Matching(t *testing.T) {
	sfErr := NewConfigParseError("ctx", "cause", "fix it", errors.New("broken yaml"))

	if !errors.Is(sfErr, ErrConfigParseFailed) {
		t.Error("errors.Is should match the taxonomy sentinel")
	}
	if errors.Is(sfErr, ErrSynthFailed) {
		t.Error("errors.Is should not match a different sentinel")
	}
	if sfErr.Error() != "broken yaml" {
		t.Errorf("Error() = %q, want the original message", sfErr.Error())
	}

	var target *StackForgeError
	if !errors.As(sfErr, &target) {
		t.Error("errors.As should expose the structured error")
	}
	if target.Suggestion != "fix it" {
		t.Errorf("Suggestion = %q, want %q", target.Suggestion, "fix it")
	}
}
