// Package ui provides consistent styling for the hidgeneric CLI
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)
)

// Header renders a section header.
func Header(text string) string {
	return HeaderStyle.Render(text)
}

// KeyValue renders one "label: value" line.
func KeyValue(label string, value interface{}) string {
	return fmt.Sprintf("%s %v", LabelStyle.Render(label+":"), value)
}

// Ok renders a success line with a checkmark.
func Ok(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

// Fail renders an error line with a cross.
func Fail(text string) string {
	return ErrorStyle.Render("✗ " + text)
}
