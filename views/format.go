// ABOUTME: Display formatting for interaction durations and tag badges
// ABOUTME: Badge text color is chosen by perceived luminance of the tag color
package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/harperreed/rolodex/models"
)

// FormatDuration renders minutes as "45m", "2h", or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

const (
	black = "#000000"
	white = "#ffffff"

	luminanceThreshold = 0.5
)

// TagColor returns the tag's color, or the default when it is missing or not a hex color.
func TagColor(hex string) string {
	if _, err := colorful.Hex(hex); err != nil {
		return models.DefaultTagColor
	}
	return hex
}

// ContrastColor returns black or white, whichever reads better on hex.
func ContrastColor(hex string) string {
	c, err := colorful.Hex(TagColor(hex))
	if err != nil {
		return white
	}
	if 0.299*c.R+0.587*c.G+0.114*c.B > luminanceThreshold {
		return black
	}
	return white
}

// TagBadge renders a tag name on its own color.
func TagBadge(tag models.Tag) string {
	bg := TagColor(tag.Color)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(ContrastColor(bg))).
		Padding(0, 1).
		Render(tag.Name)
}
