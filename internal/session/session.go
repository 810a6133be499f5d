// Package session composes question lists, runs a playthrough and folds its
// result back into the weakness set.
package session

import (
	"math"
	"slices"
	"time"

	"github.com/abhisek/quizreplay/internal/quiz"
)

// New starts a session at the first question. now is used for the start and
// finish timestamps; nil means time.Now.
func New(questions []quiz.Question, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if now == nil {
		now = time.Now
	}
	return &Session{
		questions: slices.Clone(questions),
		phase:     PhaseAwaitingSelection,
		startedAt: now(),
		now:       now,
	}, nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the 0-based index of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions in the session.
func (s *Session) Total() int { return len(s.questions) }

// Current returns the question being played. After the session finishes it
// returns the last question.
func (s *Session) Current() quiz.Question { return s.questions[s.index] }

// Correct returns the number of fully correct answers so far.
func (s *Session) Correct() int { return s.correct }

// Incorrect returns the number of answers that were not fully correct.
func (s *Session) Incorrect() int { return s.incorrect }

// LastCorrect reports whether the most recently revealed answer was correct.
func (s *Session) LastCorrect() bool { return s.lastCorrect }

// IsSelected reports whether option i is part of the current selection.
// While revealed it reflects the recorded answer.
func (s *Session) IsSelected(i int) bool {
	switch s.phase {
	case PhaseAwaitingSelection:
		return slices.Contains(s.pending, i)
	default:
		if len(s.answers) == 0 {
			return false
		}
		return slices.Contains(s.answers[len(s.answers)-1].Selected, i)
	}
}

// PendingCount returns the number of toggled options of a multi-select question.
func (s *Session) PendingCount() int { return len(s.pending) }

// Choose handles a click on option i. Single-select questions are scored
// immediately; multi-select questions toggle i in the pending selection.
// It reports whether the state changed. Clicks outside
// PhaseAwaitingSelection and out-of-range indexes are ignored.
func (s *Session) Choose(i int) bool {
	if s.phase != PhaseAwaitingSelection {
		return false
	}
	q := s.Current()
	if i < 0 || i >= len(q.Answers) {
		return false
	}
	if !q.IsMultiSelect() {
		s.reveal([]int{i})
		return true
	}
	if j := slices.Index(s.pending, i); j >= 0 {
		s.pending = slices.Delete(s.pending, j, j+1)
	} else {
		s.pending = append(s.pending, i)
	}
	return true
}

// Submit scores the pending selection of a multi-select question. It needs
// at least one toggled option and reports whether the state changed.
func (s *Session) Submit() bool {
	if s.phase != PhaseAwaitingSelection || !s.Current().IsMultiSelect() {
		return false
	}
	if len(s.pending) == 0 {
		return false
	}
	s.reveal(s.pending)
	return true
}

func (s *Session) reveal(selected []int) {
	ua := quiz.UserAnswer{
		Question: s.Current(),
		Selected: slices.Clone(selected),
	}
	s.answers = append(s.answers, ua)
	s.lastCorrect = ua.FullyCorrect()
	if s.lastCorrect {
		s.correct++
	} else {
		s.incorrect++
	}
	s.pending = nil
	s.phase = PhaseRevealed
}

// Advance moves past a revealed question. On the last question it finishes
// the session and builds the result. It reports whether the state changed.
func (s *Session) Advance() bool {
	if s.phase != PhaseRevealed {
		return false
	}
	if s.index+1 < len(s.questions) {
		s.index++
		s.phase = PhaseAwaitingSelection
		return true
	}

	s.finishedAt = s.now()
	s.phase = PhaseFinished
	s.result = &quiz.SessionResult{
		CorrectCount:    s.correct,
		IncorrectCount:  s.incorrect,
		Total:           len(s.questions),
		Answers:         slices.Clone(s.answers),
		DurationSeconds: roundSeconds(s.finishedAt.Sub(s.startedAt)),
	}
	return true
}

// Result returns the session result once finished.
func (s *Session) Result() (*quiz.SessionResult, bool) {
	if s.phase != PhaseFinished {
		return nil, false
	}
	return s.result, true
}

// Elapsed returns the time since start, frozen once finished.
func (s *Session) Elapsed() time.Duration {
	if s.phase == PhaseFinished {
		return s.finishedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// Questions returns a copy of the session's question list.
func (s *Session) Questions() []quiz.Question {
	return slices.Clone(s.questions)
}

func roundSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(math.Round(d.Seconds()))
}
