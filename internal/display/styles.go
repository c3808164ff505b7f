package display

import "github.com/charmbracelet/lipgloss"

// Adaptive colors (light/dark terminal detection).
var (
	ColorLit       = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	ColorPressed   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorHeader    = lipgloss.AdaptiveColor{Light: "#0070F3", Dark: "#79C0FF"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
	ColorSuspended = lipgloss.AdaptiveColor{Light: "#6B21A8", Dark: "#D8A6FF"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Bold(true)

	litStyle = lipgloss.NewStyle().
			Foreground(ColorLit).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	pressedStyle = lipgloss.NewStyle().
			Foreground(ColorPressed).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	suspendedStyle = lipgloss.NewStyle().
			Foreground(ColorSuspended)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)
