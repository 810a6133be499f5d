package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/ui/components"
	"github.com/abhisek/quizreplay/internal/ui/theme"
)

func (p *PlayScreen) View(width, height int) string {
	if p.confirmQuit {
		return renderQuitConfirm(width)
	}
	if p.finishing {
		return theme.Centered(theme.Muted, width, "\n\n\n  Saving results...")
	}

	var b strings.Builder
	b.WriteString(p.renderInfoLine(width))
	b.WriteString("\n")
	bar := components.NewProgressBar("", float64(p.sess.Index())/float64(p.sess.Total()), false, min(width-4, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	q := p.sess.Current()
	if q.IsWeakness {
		b.WriteString(theme.Centered(theme.Weak, width, "⚑ You missed this one last time"))
		b.WriteString("\n")
	}

	textWidth := min(width-8, 72)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).Render(q.Text)))
	b.WriteString("\n")
	if q.IsMultiSelect() {
		hint := fmt.Sprintf("Select all that apply (%d correct)", q.CorrectCount())
		if p.sess.Phase() == session.PhaseAwaitingSelection {
			hint += fmt.Sprintf(" · %d selected", p.sess.PendingCount())
		}
		b.WriteString(theme.Centered(theme.Hint, width, hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.list.View()))

	if p.sess.Phase() == session.PhaseRevealed {
		b.WriteString("\n")
		b.WriteString(p.renderFeedback(width))
	}
	return b.String()
}

func (p *PlayScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", p.sess.Index()+1, p.sess.Total()))

	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%s %d  %s %d  %s",
		theme.Correct.Render("✓"), p.sess.Correct(),
		theme.Incorrect.Render("✗"), p.sess.Incorrect(),
		session.FormatDuration(p.elapsed),
	))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (p *PlayScreen) renderFeedback(width int) string {
	var b strings.Builder
	if p.sess.LastCorrect() {
		b.WriteString(theme.Centered(theme.Correct, width, "Correct!"))
	} else {
		b.WriteString(theme.Centered(theme.Incorrect, width, "Not quite"))
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Muted, width, "Correct: "+correctAnswers(p)))
	}
	b.WriteString("\n\n")

	switch {
	case p.explaining:
		b.WriteString(theme.Centered(theme.Hint, width, "Asking for an explanation..."))
		b.WriteString("\n\n")
	case p.explanation != "":
		exp := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(p.explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	case p.explainErr != "":
		b.WriteString(theme.Centered(theme.Muted, width, p.explainErr))
		b.WriteString("\n\n")
	}

	next := "Press Enter for the next question"
	if p.sess.Index()+1 == p.sess.Total() {
		next = "Press Enter to see your results"
	}
	b.WriteString(theme.Centered(theme.Muted, width, next))
	return b.String()
}

func correctAnswers(p *PlayScreen) string {
	var out []string
	for i, a := range p.sess.Current().Answers {
		if a.IsCorrect {
			out = append(out, fmt.Sprintf("%s) %s", components.OptionLabels[i], a.Text))
		}
	}
	return strings.Join(out, ", ")
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), width, "Abandon this quiz?"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Muted, width, "Answers so far will not be scored."))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Error), width, "[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Primary), width, "[N] No, keep going"))
	return b.String()
}
