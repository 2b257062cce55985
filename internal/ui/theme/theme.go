// Package theme holds the palette and shared styles of the TUI, plus the
// mapping from catalog color and icon names to what the terminal draws.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette for dark terminals.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var phaseColors = map[string]color.Color{
	"blue":   lipgloss.Color("#3B82F6"),
	"green":  Success,
	"purple": lipgloss.Color("#A855F7"),
	"orange": lipgloss.Color("#F97316"),
	"red":    lipgloss.Color("#EF4444"),
}

// PhaseColor maps a catalog color name to a terminal color. Unknown names
// get Primary.
func PhaseColor(name string) color.Color {
	if c, ok := phaseColors[name]; ok {
		return c
	}
	return Primary
}

const defaultIcon = "📌"

var phaseIcons = map[string]string{
	"database":    "🗄",
	"code":        "💻",
	"trending-up": "📈",
	"zap":         "⚡",
	"award":       "🏆",
}

// PhaseIcon maps a catalog icon name to a glyph. Anything that is not a
// known name is taken to be a glyph already.
func PhaseIcon(name string) string {
	switch g, ok := phaseIcons[name]; {
	case ok:
		return g
	case name == "":
		return defaultIcon
	default:
		return name
	}
}

var (
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
)

// Item styles for phases and projects in the roadmap list.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Done       = lipgloss.NewStyle().Foreground(Success)
	Locked     = lipgloss.NewStyle().Foreground(TextDim).Faint(true)
)

var (
	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Background(BgCard).Foreground(TextDim).Padding(0, 2)

	Toast = lipgloss.NewStyle().
		Background(BgCard).
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 2)

	// Speaker labels in the mentor chat.
	UserBubble      = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	AssistantBubble = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)
