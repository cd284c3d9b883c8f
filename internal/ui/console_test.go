package ui

import (
	"strings"
	"testing"
)

func TestNewConsole(t *testing.T) {
	console := NewConsole()
	if console == nil {
		t.Fatal("NewConsole() returned nil")
	}
}

func TestConsole_formatMessage(t *testing.T) {
	console := &Console{useColors: true}

	tests := []struct {
		style   ConsoleStyle
		message string
		colored bool
	}{
		{StyleNormal, "test message", false},
		{StyleError, "error message", true},
		{StyleWarning, "warning message", true},
		{StyleSuccess, "success message", true},
		{StyleInfo, "info message", true},
	}

	for _, test := range tests {
		result := console.formatMessage(test.style, test.message)

		if !strings.Contains(result, test.message) {
			t.Errorf("formatMessage(%v, %q) should contain the original message", test.style, test.message)
		}
		if test.colored && !strings.Contains(result, colorReset) {
			t.Errorf("formatMessage(%v, %q) should contain the reset code", test.style, test.message)
		}
		if !test.colored && result != test.message {
			t.Errorf("formatMessage(%v, %q) = %q, want the message unchanged", test.style, test.message, result)
		}
	}
}

func TestConsole_formatMessage_NoColors(t *testing.T) {
	console := &Console{useColors: false}

	for _, style := range []ConsoleStyle{StyleNormal, StyleError, StyleWarning, StyleSuccess, StyleInfo} {
		if got := console.formatMessage(style, "plain"); got != "plain" {
			t.Errorf("formatMessage(%v) = %q, want %q without colors", style, got, "plain")
		}
	}
}

func TestConsole_FormatErrorMessage(t *testing.T) {
	console := NewConsole()

	got := console.FormatErrorMessage("Context line", "the cause", "the fix")
	want := "Context line\nCause: the cause\nSuggestion: the fix"
	if got != want {
		t.Errorf("FormatErrorMessage() = %q, want %q", got, want)
	}

	if got := console.FormatErrorMessage("Only context", "", ""); got != "Only context" {
		t.Errorf("FormatErrorMessage() = %q, want context only", got)
	}
}
