package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/fred/internal/config"
)

func TestShowBanner(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "1.0.0-test")
	out := buf.String()

	if !strings.Contains(out, "terminal feed reader") {
		t.Errorf("Expected banner to contain tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestShowBanner_DevVersion(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "dev")

	if strings.Contains(buf.String(), "dev") {
		t.Errorf("Expected dev builds to omit the version, got: %s", buf.String())
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "▄▄▄▄▄") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(config.TestConfig().UI.Colors)

	ApplyTheme(config.UIColors{Primary: "#123456"})

	if PrimaryColor != lipgloss.Color("#123456") {
		t.Errorf("Expected primary color to be replaced, got %v", PrimaryColor)
	}
	if SecondaryColor == lipgloss.Color("") {
		t.Errorf("Expected empty entries to keep the current color")
	}
}
