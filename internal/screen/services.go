package screen

import (
	"time"

	"github.com/abhisek/quizreplay/internal/explain"
	"github.com/abhisek/quizreplay/internal/parser"
	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/store"
	"github.com/abhisek/quizreplay/internal/weakness"
)

// Services bundles the dependencies screens share.
type Services struct {
	Parser  *parser.Parser
	Tracker *weakness.Tracker
	Reducer *session.Reducer
	Rand    quiz.Rand

	// Events records finished sessions. Nil disables history.
	Events store.EventRepo

	// Explainer serves the explain key. Nil hides it.
	Explainer *explain.Explainer

	// HistoryLimit is how many sessions history keeps. 0 keeps all.
	HistoryLimit int

	// ExplainTimeout bounds one explanation request.
	ExplainTimeout time.Duration

	// Now is the session clock. Nil means time.Now.
	Now func() time.Time
}

// Clock returns Now or time.Now.
func (s *Services) Clock() func() time.Time {
	if s.Now != nil {
		return s.Now
	}
	return time.Now
}
