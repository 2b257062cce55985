// Package layout draws the frame around every screen: a header bar with the
// overall completion, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

// Terminal size limits. Below the Min sizes only a resize notice is drawn;
// below the Compact thresholds screens switch to denser renderings.
const (
	MinWidth  = 60
	MinHeight = 18

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// barPadding is what the rounded border and its inner gutter take from a
// bar's width.
const barPadding = 4

// KeyHint is one key binding listed in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

var (
	barStyle = lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1)
	brandStyle   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(theme.Text)
	percentStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	keyStyle     = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle    = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// RenderMinSizeMessage asks the user to enlarge the terminal, centered in
// whatever space there is.
func RenderMinSizeMessage(width, height int) string {
	msg := titleStyle.Align(lipgloss.Center).Render(fmt.Sprintf(
		"Terminal demasiado pequeña\n\nAmplíala a por lo menos\n%d x %d\n\nActual: %d x %d",
		MinWidth, MinHeight, width, height,
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// RenderHeader draws the app name on the left, title centered and the
// roadmap completion on the right. When the three do not fit with the title
// centered they are laid out left to right.
func RenderHeader(title string, percent int, width int) string {
	brand := brandStyle.Render("careerpath")
	center := titleStyle.Render(title)
	done := percentStyle.Render(fmt.Sprintf("%d%% completado", percent))

	inner := max(width-barPadding, 0)
	left := (inner - lipgloss.Width(center)) / 2
	right := inner - left - lipgloss.Width(center)

	var content string
	if left > lipgloss.Width(brand) && right > lipgloss.Width(done) {
		content = lipgloss.PlaceHorizontal(left, lipgloss.Left, brand) +
			center +
			lipgloss.PlaceHorizontal(right, lipgloss.Right, done)
	} else {
		content = strings.Join([]string{brand, center, done}, " ")
	}
	return barStyle.Width(width).Render(content)
}

// RenderFooter lists the key hints. If the full hints overflow the bar only
// the keys are shown.
func RenderFooter(hints []KeyHint, width int) string {
	full := make([]string, len(hints))
	keys := make([]string, len(hints))
	for i, h := range hints {
		keys[i] = keyStyle.Render(h.Key)
		full[i] = keys[i] + " " + descStyle.Render(h.Description)
	}

	content := strings.Join(full, "   ")
	if lipgloss.Width(content) > width-barPadding {
		content = strings.Join(keys, "  ")
	}
	return barStyle.Width(width).Render(content)
}

// RenderFrame stacks header, body and footer into exactly height lines. A
// body taller than the space left is cut so the footer stays on screen.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
