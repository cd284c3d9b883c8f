package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"stackforge/internal/ui"
)

// ErrorHandler writes structured errors to a JSON log file and renders a
// human-readable version on the console.
type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
}

func NewErrorHandler() (*ErrorHandler, error) {
	logFile, err := openLogFile()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &ErrorHandler{
		logger:  logger,
		console: ui.NewConsole(),
	}, nil
}

// logDir returns the OS-standard log directory, honoring the
// STACKFORGE_LOG_DIR override.
func logDir() (string, error) {
	if custom := os.Getenv("STACKFORGE_LOG_DIR"); custom != "" {
		return custom, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "StackForge"), nil
	case "windows":
		appDataDir := os.Getenv("APPDATA")
		if appDataDir == "" {
			appDataDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
		return filepath.Join(appDataDir, "StackForge", "logs"), nil
	default:
		// XDG Base Directory layout on Linux and the BSDs
		return filepath.Join(homeDir, ".local", "share", "stackforge", "logs"), nil
	}
}

// rotateLogFile shifts numbered suffixes, keeping at most five generations of
// the log.
func rotateLogFile(logPath string) error {
	const maxFiles = 5

	for i := maxFiles - 1; i > 0; i-- {
		oldPath := fmt.Sprintf("%s.%d", logPath, i)
		if i == maxFiles-1 {
			if _, err := os.Stat(oldPath); err == nil {
				if err := os.Remove(oldPath); err != nil {
					slog.Warn("Failed to remove old log file", "path", oldPath, "error", err)
				}
			}
			continue
		}
		if _, err := os.Stat(oldPath); err == nil {
			newPath := fmt.Sprintf("%s.%d", logPath, i+1)
			if err := os.Rename(oldPath, newPath); err != nil {
				slog.Warn("Failed to rotate log file", "old", oldPath, "new", newPath, "error", err)
			}
		}
	}

	if _, err := os.Stat(logPath); err == nil {
		return os.Rename(logPath, logPath+".1")
	}
	return nil
}

func openLogFile() (*os.File, error) {
	const maxSizeBytes = 10 * 1024 * 1024

	dir, err := logDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, "stackforge.log")
	if info, err := os.Stat(logPath); err == nil && info.Size() >= maxSizeBytes {
		if err := rotateLogFile(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to rotate log file: %v\n", err)
		}
	}

	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var sfErr *StackForgeError
	if errors.As(err, &sfErr) {
		h.handleStructuredError(sfErr)
	} else {
		h.handleGenericError(err)
	}
}

func (h *ErrorHandler) handleStructuredError(err *StackForgeError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.OriginalErr.Error()),
		slog.String("type", errorTypeName(err.Type)),
		slog.String("context", err.Context),
	}
	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}
	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}
	h.logger.LogAttrs(context.TODO(), slog.LevelError, "StackForge error occurred", logAttrs...)

	h.console.PrintError(h.console.FormatErrorMessage(err.Context, err.Cause, err.Suggestion))
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred", "error", err.Error(), "type", "generic")
	h.console.PrintError(err.Error())
}

func errorTypeName(errType error) string {
	switch errType {
	case ErrConfigNotFound:
		return "config_not_found"
	case ErrConfigParseFailed:
		return "config_parse_failed"
	case ErrConfigInvalid:
		return "config_invalid"
	case ErrSynthFailed:
		return "synth_failed"
	case ErrFileSystemFailed:
		return "filesystem_failed"
	default:
		return "unknown"
	}
}
