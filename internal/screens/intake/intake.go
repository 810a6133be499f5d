// Package intake collects report files and starts a quiz from them.
package intake

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizreplay/internal/parser"
	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/screens/play"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/ui/components"
	"github.com/abhisek/quizreplay/internal/ui/layout"
	"github.com/abhisek/quizreplay/internal/ui/theme"
	"github.com/abhisek/quizreplay/internal/weakness"
)

// parsedMsg is the outcome of parsing and composing the pending batch.
type parsedMsg struct {
	questions []quiz.Question
	files     []string
	err       error
}

// IntakeScreen holds the pending file list.
type IntakeScreen struct {
	svc        *screen.Services
	intake     parser.Intake
	input      components.TextInput
	selected   int
	processing bool
	autoStart  bool
	errMsg     string
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)

// New creates an IntakeScreen pre-filled with paths. Invalid paths are
// skipped and reported in the error line.
func New(svc *screen.Services, paths ...string) *IntakeScreen {
	s := &IntakeScreen{
		svc:   svc,
		input: components.NewTextInput("path/to/report.xlsx", 512),
	}
	for _, p := range paths {
		if err := s.intake.Add(expandHome(p)); err != nil && s.errMsg == "" {
			s.errMsg = parser.Message(err)
		}
	}
	return s
}

// WithAutoStart makes Init start parsing immediately when files are pending
// and none of the given paths was rejected.
func (s *IntakeScreen) WithAutoStart() *IntakeScreen {
	s.autoStart = true
	return s
}

func (s *IntakeScreen) Init() tea.Cmd {
	if s.autoStart && s.intake.Len() > 0 && s.errMsg == "" {
		return s.start()
	}
	return s.input.Init()
}

func (s *IntakeScreen) Title() string {
	return "New Quiz"
}

func (s *IntakeScreen) KeyHints() []layout.KeyHint {
	if s.processing {
		return nil
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Add / Start"},
		{Key: "↑↓", Description: "Select file"},
		{Key: "Ctrl+X", Description: "Remove"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case parsedMsg:
		return s.handleParsed(msg)

	case screen.ResetMsg:
		s.intake.Clear()
		s.selected = 0
		s.errMsg = ""
		s.input.Reset()
		return s, nil

	case tea.KeyMsg:
		if s.processing {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "enter":
			if strings.TrimSpace(s.input.Value()) != "" {
				s.add(s.input.Value())
				s.input.Reset()
				return s, nil
			}
			return s, s.start()
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < s.intake.Len()-1 {
				s.selected++
			}
			return s, nil
		case "ctrl+x":
			s.intake.Remove(s.selected)
			s.selected = max(min(s.selected, s.intake.Len()-1), 0)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *IntakeScreen) add(path string) {
	if err := s.intake.Add(expandHome(path)); err != nil {
		s.errMsg = parser.Message(err)
		return
	}
	s.errMsg = ""
}

// start parses the pending files off the UI goroutine and composes the
// session order from the stored weakness set.
func (s *IntakeScreen) start() tea.Cmd {
	if s.intake.Len() == 0 {
		s.errMsg = parser.Message(parser.ErrNoFiles)
		return nil
	}
	s.processing = true
	s.errMsg = ""

	svc := s.svc
	files := s.intake.Files()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	return func() tea.Msg {
		ctx := context.Background()
		questions, err := svc.Parser.Parse(ctx, files)
		if err != nil {
			return parsedMsg{err: err}
		}
		weak, err := svc.Tracker.Load(ctx)
		if err != nil {
			log.Printf("load weak questions: %v", err)
			weak = weakness.NewSet()
		}
		return parsedMsg{questions: session.Compose(questions, weak, svc.Rand), files: names}
	}
}

func (s *IntakeScreen) handleParsed(msg parsedMsg) (screen.Screen, tea.Cmd) {
	s.processing = false
	if msg.err != nil {
		log.Printf("parse batch: %v", msg.err)
		s.errMsg = parser.Message(msg.err)
		return s, nil
	}
	next, err := play.New(s.svc, msg.questions, msg.files, false)
	if err != nil {
		s.errMsg = parser.Message(parser.ErrNoQuestions)
		return s, nil
	}
	return s, router.Push(next)
}

func (s *IntakeScreen) View(width, height int) string {
	if s.processing {
		return theme.Centered(theme.Muted, width, "\n\n\n  Processing files...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "Load quiz reports"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Subtitle, width, "Type the path of an exported .xlsx report and press Enter"))
	b.WriteString("\n\n")

	s.input.SetWidth(min(width-12, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	b.WriteString("\n\n")

	paths := s.intake.Paths()
	if len(paths) == 0 {
		b.WriteString(theme.Centered(theme.Hint, width, "No files added yet."))
	} else {
		var list strings.Builder
		for i, p := range paths {
			prefix := "  "
			style := theme.Unselected
			if i == s.selected {
				prefix = "▸ "
				style = theme.Selected
			}
			list.WriteString(style.Render(fmt.Sprintf("%s%d. %s", prefix, i+1, p)))
			list.WriteString("\n")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Hint, width,
			fmt.Sprintf("%d file(s) ready. Press Enter on an empty line to start.", len(paths))))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Centered(theme.Incorrect, width, s.errMsg))
	}
	return b.String()
}

// Paths returns the pending file paths.
func (s *IntakeScreen) Paths() []string {
	return s.intake.Paths()
}

// expandHome strips surrounding quotes left by terminal drag-and-drop and
// expands a leading ~/.
func expandHome(path string) string {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
