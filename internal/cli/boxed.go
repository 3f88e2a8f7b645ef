package cli

import (
	"fmt"
	"io"
	"os"
	"pwmeter/internal/scorer"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	defaultBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		Padding(1, 2)
)

func getBoxWidth() int {
	width, _, _ := term.GetSize(int(os.Stdout.Fd()))
	if width == 0 || width > 72 {
		width = 72
	}
	return width
}

func printBoxedMessage(w io.Writer, color AnsiColor, header, message string) {
	header = lipgloss.NewStyle().Bold(true).Render(header)
	boxStyle :=
		defaultBoxStyle.
			BorderForeground(lipgloss.Color(color)).
			Align(lipgloss.Left).
			Width(getBoxWidth())
	fmt.Fprintln(
		w,
		boxStyle.Render(fmt.Sprintf("%s\n\n%s", header, message)),
	)
}

func PrintBoxedErrorMessage(message string) {
	printBoxedMessage(os.Stderr, AnsiRed, "🔴 ERROR", message)
}

// PrintBoxedScore writes a score with its warning and suggestions in a box
// coloured by the score
func PrintBoxedScore(w io.Writer, score int, warning string, suggestions []string) {
	var message strings.Builder
	if warning != "" {
		message.WriteString(styleWarning.Render(warning))
		message.WriteString("\n")
	}
	if len(suggestions) > 0 {
		message.WriteString(tipsHeading + "\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(&message, "  • %s\n", suggestion)
		}
	}
	if message.Len() == 0 {
		message.WriteString("No issues found")
	}
	printBoxedMessage(
		w,
		GetScoreColor(score),
		fmt.Sprintf("%s %v/%v", strengthLabel, score, scorer.MaxScore),
		strings.TrimSuffix(message.String(), "\n"),
	)
}
