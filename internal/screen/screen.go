// Package screen defines what the router stacks: one full-body view of
// the app, plus the messages screens use to talk to the frame around them.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizreplay/internal/ui/layout"
)

// Screen is one page of the app between the header and the footer.
type Screen interface {
	// Init runs when the screen is pushed.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body into width x height cells.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that replace the default
// footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ResetMsg tells the screen that becomes active after a pop to start over.
type ResetMsg struct{}

// WeakCountMsg reports the current size of the weakness set so the header
// can show it.
type WeakCountMsg struct {
	Count int
}
