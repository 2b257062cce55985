package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

const bannerArt = ` ██████╗ █████╗ ██████╗ ███████╗███████╗██████╗
██╔════╝██╔══██╗██╔══██╗██╔════╝██╔════╝██╔══██╗
██║     ███████║██████╔╝█████╗  █████╗  ██████╔╝
██║     ██╔══██║██╔══██╗██╔══╝  ██╔══╝  ██╔══██╗
╚██████╗██║  ██║██║  ██║███████╗███████╗██║  ██║
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝`

const bannerCompact = "C A R E E R P A T H"

// RenderBanner returns the banner styled in the primary color. It falls
// back to a single line for narrow or short terminals.
func RenderBanner(width int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact || width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
