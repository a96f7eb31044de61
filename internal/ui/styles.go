package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan: identifiers
	colorAccent  = lipgloss.Color("#FFD700") // Gold: indicators
	colorSuccess = lipgloss.Color("#00E676") // Green: success marks
	colorDanger  = lipgloss.Color("#FF5252") // Red: errors
	colorMuted   = lipgloss.Color("#636363") // Gray: separators, secondary text
	colorBlue    = lipgloss.Color("#5B8DEF") // Blue: modifiers
	colorCode    = lipgloss.Color("#C792EA") // Violet: raw codes and words
)

// Element styles for rendered sequences.
var (
	styleSymbol    = lipgloss.NewStyle().Foreground(colorPrimary)
	styleIndicator = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleModifier  = lipgloss.NewStyle().Foreground(colorBlue)
	styleSeparator = lipgloss.NewStyle().Foreground(colorMuted)
	styleCode      = lipgloss.NewStyle().Foreground(colorCode).Italic(true)
)

// Text styles.
var (
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted)
	styleOK      = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)
