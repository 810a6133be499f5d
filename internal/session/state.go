package session

import (
	"errors"
	"time"

	"github.com/abhisek/quizreplay/internal/quiz"
)

// ErrNoQuestions is returned when a session is started without questions.
var ErrNoQuestions = errors.New("session has no questions")

// Phase is the state of a playthrough.
type Phase int

const (
	PhaseAwaitingSelection Phase = iota // Waiting for a pick (or submit, for multi-select)
	PhaseRevealed                       // Answer scored, waiting for advance
	PhaseFinished                       // All questions answered, result emitted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingSelection:
		return "awaiting_selection"
	case PhaseRevealed:
		return "revealed"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Session drives one playthrough of a composed question list.
// It is not safe for concurrent use; the UI loop owns it.
type Session struct {
	// questions is the session's own copy of the composed list.
	questions []quiz.Question

	// index is the current question.
	index int

	phase Phase

	// pending holds toggled option indexes for a multi-select question,
	// in the order they were picked.
	pending []int

	// answers gets one entry per revealed question.
	answers []quiz.UserAnswer

	correct   int
	incorrect int

	// lastCorrect is the score of the most recently revealed question.
	lastCorrect bool

	startedAt  time.Time
	finishedAt time.Time
	now        func() time.Time

	result *quiz.SessionResult
}
