package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/ui/theme"
)

// OptionLabels are the letters shown in front of answer options.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// OptionState is how one option is drawn.
type OptionState int

const (
	OptionIdle OptionState = iota
	OptionPicked
	OptionCorrect    // correct, revealed
	OptionWrongPick  // picked but incorrect, revealed
	OptionMissed     // correct but not picked, revealed
	OptionIrrelevant // neither picked nor correct, revealed
)

// Checklist is a cursor over answer options. It only tracks the cursor;
// the owner decides what each option looks like through State.
type Checklist struct {
	Options []string
	Cursor  int
	// Multi draws check boxes instead of radio marks.
	Multi bool
	// State returns how option i is drawn. Nil means OptionIdle.
	State func(i int) OptionState
}

// NewChecklist creates a checklist over options.
func NewChecklist(options []string, multi bool) Checklist {
	return Checklist{Options: options, Multi: multi}
}

// Update moves the cursor on up/down.
func (c Checklist) Update(msg tea.Msg) Checklist {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	}
	return c
}

// View renders the options.
func (c Checklist) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		state := OptionIdle
		if c.State != nil {
			state = c.State(i)
		}

		prefix := "  "
		if i == c.Cursor && state <= OptionPicked {
			prefix = "▸ "
		}
		label := "?"
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, c.mark(state), label, opt)

		b.WriteString(optionStyle(state, i == c.Cursor).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (c Checklist) mark(state OptionState) string {
	switch state {
	case OptionCorrect:
		return "✓"
	case OptionWrongPick:
		return "✗"
	case OptionMissed:
		return "○"
	}
	if !c.Multi {
		return " "
	}
	if state == OptionPicked {
		return "■"
	}
	return "□"
}

func optionStyle(state OptionState, focused bool) lipgloss.Style {
	switch state {
	case OptionCorrect:
		return theme.Correct
	case OptionWrongPick:
		return theme.Incorrect
	case OptionMissed:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case OptionIrrelevant:
		return theme.Muted
	case OptionPicked:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	}
	if focused {
		return theme.Selected
	}
	return theme.Unselected
}
