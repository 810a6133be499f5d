// Package results shows the score of a finished quiz.
package results

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/ui/components"
	"github.com/abhisek/quizreplay/internal/ui/layout"
	"github.com/abhisek/quizreplay/internal/ui/theme"
)

// maxListed caps the question texts listed per weakness change.
const maxListed = 5

// RetryFunc builds a new play screen over the same questions.
type RetryFunc func() (screen.Screen, error)

// ResultsScreen displays the outcome of one session.
type ResultsScreen struct {
	outcome session.Outcome
	warn    string
	menu    components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. warn is shown under the score when results
// could not be fully saved.
func New(outcome session.Outcome, warn string, retry RetryFunc) *ResultsScreen {
	items := []components.MenuItem{
		{Label: "Retry", Action: func() tea.Cmd {
			next, err := retry()
			if err != nil {
				log.Printf("retry: %v", err)
				return nil
			}
			return router.Replace(next)
		}},
		{Label: "New quiz", Action: func() tea.Cmd {
			return tea.Sequence(router.Pop, func() tea.Msg { return screen.ResetMsg{} })
		}},
		{Label: "Home", Action: func() tea.Cmd {
			return router.PopToRoot
		}},
	}
	return &ResultsScreen{
		outcome: outcome,
		warn:    warn,
		menu:    components.NewMenu(items),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, router.PopToRoot
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.outcome.Summary
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "Quiz complete!"))
	b.WriteString("\n\n")

	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(gradeColor(sum.Grade)).Bold(true), width,
		fmt.Sprintf("%d%%   Grade %s", sum.Percentage, sum.Grade)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Correct: %d        Incorrect: %d        Time: %s",
		sum.Correct, sum.Incorrect, session.FormatDuration(sum.Duration))
	b.WriteString(theme.Centered(theme.Body, width, stats))
	b.WriteString("\n\n")

	if s.warn != "" {
		b.WriteString(theme.Centered(theme.Incorrect, width, s.warn))
		b.WriteString("\n\n")
	} else {
		b.WriteString(s.renderDelta(width))
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func (s *ResultsScreen) renderDelta(width int) string {
	d := s.outcome.Delta
	var b strings.Builder
	if len(d.Added) == 0 && len(d.Cleared) == 0 {
		b.WriteString(theme.Centered(theme.Muted, width, "Weak questions unchanged."))
		b.WriteString("\n\n")
		return b.String()
	}
	if len(d.Cleared) > 0 {
		b.WriteString(theme.Centered(theme.Correct, width, fmt.Sprintf("%d cleared from weak questions", len(d.Cleared))))
		b.WriteString("\n")
	}
	if len(d.Added) > 0 {
		b.WriteString(theme.Centered(theme.Weak, width, fmt.Sprintf("%d added to weak questions", len(d.Added))))
		b.WriteString("\n")
		for i, text := range d.Added {
			if i == maxListed {
				b.WriteString(theme.Centered(theme.Muted, width, fmt.Sprintf("… and %d more", len(d.Added)-maxListed)))
				b.WriteString("\n")
				break
			}
			b.WriteString(theme.Centered(theme.Muted, width, truncate(text, width-10)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func gradeColor(grade string) color.Color {
	switch grade {
	case "A", "B":
		return theme.Success
	case "C", "D":
		return theme.Accent
	default:
		return theme.Error
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 2 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
