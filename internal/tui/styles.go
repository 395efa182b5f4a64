package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Primary colors
	colorPrimary = lipgloss.Color("#FF9900") // AWS orange
	colorAccent  = lipgloss.Color("#00D9FF") // Cyan

	// Status colors
	colorSuccess = lipgloss.Color("#00D787") // Green
	colorWarning = lipgloss.Color("#FFB86C") // Orange
	colorError   = lipgloss.Color("#FF5555") // Red
	colorInfo    = lipgloss.Color("#8BE9FD") // Cyan

	// UI colors
	colorText    = lipgloss.Color("#F8F8F2") // White
	colorTextDim = lipgloss.Color("#6272A4") // Gray
	colorBgAlt   = lipgloss.Color("#21222C") // Alt background
)

// Style definitions
var (
	// Title bar
	titleStyle = lipgloss.NewStyle().
			Foreground(colorBgAlt).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Padding(0, 1)

	// Selected item in list
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	// Normal list item
	normalStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// Fuzzy match highlight
	matchStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Underline(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Description style (for history rows)
	descriptionStyle = lipgloss.NewStyle().
				Foreground(colorTextDim)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

// RenderTitle renders the title bar
func RenderTitle(title string, subtitle string) string {
	left := titleStyle.Render(title)
	if subtitle == "" {
		return left
	}
	right := subtitleStyle.Render(subtitle)
	return lipgloss.JoinHorizontal(lipgloss.Left, left, right)
}

// RenderSuccess renders a success message
func RenderSuccess(msg string) string {
	return successStyle.Render("✓ " + msg)
}

// RenderError renders an error message
func RenderError(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

// RenderWarning renders a warning message
func RenderWarning(msg string) string {
	return warningStyle.Render("⚠ " + msg)
}

// RenderInfo renders an info message
func RenderInfo(msg string) string {
	return infoStyle.Render("ℹ " + msg)
}

// RenderHelp renders help text
func RenderHelp(text string) string {
	return helpStyle.Render(text)
}

// RenderHistoryRow renders a history entry on one line
func RenderHistoryRow(title, description string, exitCode int) string {
	return RenderExitStatus(exitCode) + " " + normalStyle.Render(title) + "  " + descriptionStyle.Render(description)
}

// RenderExitStatus renders a status indicator for a session exit code
func RenderExitStatus(exitCode int) string {
	switch {
	case exitCode == 0:
		return successStyle.Render("●")
	case exitCode == 130:
		// Interrupted by the user
		return warningStyle.Render("●")
	case exitCode < 0:
		return helpStyle.Render("●")
	default:
		return errorStyle.Render("● " + strconv.Itoa(exitCode))
	}
}

// GetMaxHeight returns the list height for a given screen height
func GetMaxHeight(screenHeight int) int {
	maxHeight := screenHeight - 4 // Account for title and help
	if maxHeight < 5 {
		maxHeight = 5
	}
	return maxHeight
}
