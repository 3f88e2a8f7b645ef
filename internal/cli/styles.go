package cli

import (
	"pwmeter/internal/scorer"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleDefault = lipgloss.NewStyle()
	styleFaded   = lipgloss.NewStyle().Faint(true)

	styleError             = lipgloss.NewStyle().Foreground(lipgloss.Color(AnsiRed))
	styleInput             = styleDefault
	styleInputFocused      = lipgloss.NewStyle().Foreground(lipgloss.Color(AnsiBlue))
	styleInputLabel        = styleDefault
	styleInputLabelFocused = styleBold
	stylePlaceholder       = styleFaded
	styleTitle             = styleBold
	styleWarning           = lipgloss.NewStyle().Foreground(lipgloss.Color(AnsiYellow))
)

var scoreColors = map[int]AnsiColor{
	0: AnsiRed,
	1: AnsiOrange,
	2: AnsiYellow,
	3: AnsiBlue,
	4: AnsiGreen,
}

// GetScoreColor maps a score onto a traffic-light colour
func GetScoreColor(score int) AnsiColor {
	if score < scorer.MinScore {
		score = scorer.MinScore
	} else if score > scorer.MaxScore {
		score = scorer.MaxScore
	}
	return scoreColors[score]
}

func getScoreStyle(score int) lipgloss.Style {
	return styleBold.Foreground(lipgloss.Color(GetScoreColor(score)))
}
