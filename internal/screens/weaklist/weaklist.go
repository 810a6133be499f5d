// Package weaklist shows and clears the stored weak questions.
package weaklist

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/ui/layout"
	"github.com/abhisek/quizreplay/internal/ui/theme"
	"github.com/abhisek/quizreplay/internal/weakness"
)

type loadedMsg struct {
	items []string
	err   error
}

type clearedMsg struct {
	err error
}

// WeakListScreen lists weak questions in the order they were missed.
type WeakListScreen struct {
	tracker *weakness.Tracker
	items   []string
	offset  int
	confirm bool
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*WeakListScreen)(nil)
var _ screen.KeyHintProvider = (*WeakListScreen)(nil)

// New creates a WeakListScreen reading from tracker.
func New(tracker *weakness.Tracker) *WeakListScreen {
	return &WeakListScreen{tracker: tracker}
}

func (s *WeakListScreen) Init() tea.Cmd {
	tracker := s.tracker
	return func() tea.Msg {
		set, err := tracker.Load(context.Background())
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{items: set.Items()}
	}
}

func (s *WeakListScreen) Title() string {
	return "Weak Questions"
}

func (s *WeakListScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear all"},
			{Key: "N", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if len(s.items) > 0 {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Clear"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *WeakListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.items = msg.items
		count := len(msg.items)
		return s, func() tea.Msg { return screen.WeakCountMsg{Count: count} }

	case clearedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.items = nil
		s.offset = 0
		return s, func() tea.Msg { return screen.WeakCountMsg{Count: 0} }

	case tea.KeyMsg:
		key := msg.String()
		if s.confirm {
			switch key {
			case "y", "Y":
				s.confirm = false
				return s, s.clear()
			case "n", "N", "esc":
				s.confirm = false
			}
			return s, nil
		}
		switch key {
		case "esc":
			return s, router.Pop
		case "c", "C":
			if len(s.items) > 0 {
				s.confirm = true
			}
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.items)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *WeakListScreen) clear() tea.Cmd {
	tracker := s.tracker
	return func() tea.Msg {
		return clearedMsg{err: tracker.Clear(context.Background())}
	}
}

func (s *WeakListScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return theme.Centered(theme.Incorrect, width, "\n\nError: "+s.errMsg)
	case !s.loaded:
		return theme.Centered(theme.Muted, width, "\n\n  Loading weak questions...")
	case s.confirm:
		return theme.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), width,
			fmt.Sprintf("\n\n\nForget all %d weak questions?\n\n[Y] Yes   [N] No", len(s.items)))
	case len(s.items) == 0:
		return theme.Centered(theme.Hint, width, "\n\n  No weak questions. Nice work!")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Subtitle, width,
		fmt.Sprintf("%d question(s) will be asked first in your next quiz", len(s.items))))
	b.WriteString("\n\n")

	textWidth := min(width-10, 76)
	visible := max(height-4, 1)
	end := min(s.offset+visible, len(s.items))
	for i := s.offset; i < end; i++ {
		line := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).
			Render(fmt.Sprintf("%3d. %s", i+1, s.items[i]))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	return b.String()
}
