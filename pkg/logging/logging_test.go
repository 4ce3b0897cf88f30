package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		// Lowercase
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		// Uppercase
		{"DEBUG", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},

		// Mixed case
		{"Debug", LevelDebug},
		{"Info", LevelInfo},
		{"Warn", LevelWarn},
		{"Warning", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},

		// Empty string defaults to Info
		{"", LevelInfo},

		// Unrecognized defaults to Info
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"", FormatText},
		{"yaml", FormatText}, // unrecognized defaults to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseFormat(tt.input)
			if result != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidLevelAndFormat(t *testing.T) {
	for _, s := range []string{"", "debug", "Info", "WARNING", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"trace", "verbose"} {
		if ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = true, want false", s)
		}
	}
	for _, s := range []string{"", "text", "JSON"} {
		if !ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = false, want true", s)
		}
	}
	if ValidFormat("yaml") {
		t.Error("ValidFormat(\"yaml\") = true, want false")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	log.Debug("rendered template", "path", "__files/a.vm")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "rendered template" || entry["path"] != "__files/a.vm" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewFromStringsFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewFromStrings("WARN", "text", &buf)
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	if log.Enabled(t.Context(), LevelError) {
		t.Error("Nop logger should not be enabled")
	}
}
