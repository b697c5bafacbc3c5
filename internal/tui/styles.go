package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	nameStyle = lipgloss.NewStyle().Bold(true)

	phoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
)

// Birthday countdown colors: today, within a week, later.
var (
	birthdayTodayColor = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	birthdaySoonColor  = lipgloss.AdaptiveColor{Light: "208", Dark: "208"}
	birthdayLaterColor = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
)

// soonDays is the countdown at or below which a birthday is highlighted.
const soonDays = 7

// BirthdayBadge returns a styled countdown like "today", "in 3 days".
func BirthdayBadge(days int) string {
	label, color := countdown(days), birthdayLaterColor
	switch {
	case days == 0:
		color = birthdayTodayColor
	case days <= soonDays:
		color = birthdaySoonColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(label)
}

// countdown returns the unstyled countdown label for days.
func countdown(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
