package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/store"
	"github.com/abhisek/quizreplay/internal/ui/layout"
	"github.com/abhisek/quizreplay/internal/ui/theme"
)

// DefaultLimit is the number of sessions loaded when no limit is given.
const DefaultLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionEvent
	Err      error
}

// HistoryScreen displays past quiz sessions, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	limit     int
	sessions  []store.SessionEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. limit <= 0 uses DefaultLimit.
func New(eventRepo store.EventRepo, limit int) *HistoryScreen {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &HistoryScreen{
		eventRepo: eventRepo,
		limit:     limit,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, limit := s.eventRepo, s.limit
	return func() tea.Msg {
		sessions, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Limit: limit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Centered(theme.Incorrect, width, fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Centered(theme.Muted, width, "\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return theme.Centered(theme.Hint, width, "\n\n  No quizzes yet. Load a report to start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		kind := ""
		if sess.Retry {
			kind = "  (retry)"
		}

		line := fmt.Sprintf("%s%s  %s  %2d/%-2d  %3d%%  %s%s",
			prefix,
			sess.Timestamp.Local().Format("Jan 02 15:04"),
			session.FormatDuration(secs(sess.DurationSecs)),
			sess.Correct, sess.Total, sess.Percentage, sess.Grade, kind)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range details(sess) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Muted.Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func details(e store.SessionEvent) []string {
	files := "(none recorded)"
	if len(e.Files) > 0 {
		files = strings.Join(e.Files, ", ")
	}
	return []string{
		"    Files: " + files,
		fmt.Sprintf("    Weak questions: +%d added, -%d cleared", e.WeakAdded, e.WeakCleared),
	}
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
