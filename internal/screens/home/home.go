// Package home is the root screen.
package home

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/screens/history"
	"github.com/abhisek/quizreplay/internal/screens/intake"
	"github.com/abhisek/quizreplay/internal/screens/weaklist"
	"github.com/abhisek/quizreplay/internal/ui/components"
	"github.com/abhisek/quizreplay/internal/ui/theme"
)

const banner = `┏━┓╻ ╻╻╺━┓   ┏━┓┏━╸┏━┓╻  ┏━┓╻ ╻
┃┓┃┃ ┃┃┏━┛   ┣┳┛┣╸ ┣━┛┃  ┣━┫┗┳┛
┗┻┛┗━┛╹┗━╸   ╹┗╸┗━╸╹  ┗━╸╹ ╹ ╹ `

// HomeScreen is the main menu.
type HomeScreen struct {
	svc          *screen.Services
	menu         components.Menu
	initialFiles []string
	weakCount    int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. When initialFiles is non-empty, Init opens
// the intake screen with those files and starts the quiz right away.
func New(svc *screen.Services, initialFiles []string) *HomeScreen {
	items := []components.MenuItem{
		{Label: "NEW QUIZ", Action: func() tea.Cmd {
			return router.Push(intake.New(svc))
		}},
		{Label: "WEAK QUESTIONS", Action: func() tea.Cmd {
			return router.Push(weaklist.New(svc.Tracker))
		}},
		{Label: "HISTORY", Disabled: svc.Events == nil, Action: func() tea.Cmd {
			return router.Push(history.New(svc.Events, svc.HistoryLimit))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{
		svc:          svc,
		menu:         components.NewMenu(items),
		initialFiles: initialFiles,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{h.loadWeakCount()}
	if len(h.initialFiles) > 0 {
		cmds = append(cmds, router.Push(intake.New(h.svc, h.initialFiles...).WithAutoStart()))
		h.initialFiles = nil
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) loadWeakCount() tea.Cmd {
	tracker := h.svc.Tracker
	return func() tea.Msg {
		set, err := tracker.Load(context.Background())
		if err != nil {
			log.Printf("load weak questions: %v", err)
			return nil
		}
		return screen.WeakCountMsg{Count: set.Len()}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(screen.WeakCountMsg); ok {
		h.weakCount = m.Count
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	if width >= 50 && height >= 16 {
		sections = append(sections, theme.Centered(theme.Title, width, banner))
	} else {
		sections = append(sections, theme.Centered(theme.Title, width, "QUIZ REPLAY"))
	}
	sections = append(sections, theme.Centered(theme.Subtitle, width,
		"Replay exported quiz reports and drill the questions you missed"))

	status := "No weak questions yet"
	if h.weakCount > 0 {
		status = fmt.Sprintf("%d weak question(s) will be asked first", h.weakCount)
	}
	statusBox := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Accent).
		Bold(true).
		Padding(0, 2).
		Render(status)
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, statusBox))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return "\n" + strings.Join(sections, "\n\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
