package session

import (
	"context"
	"fmt"

	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/weakness"
)

// Delta lists the weakness changes caused by one session.
type Delta struct {
	Added   []string
	Cleared []string
}

// ApplyResult folds answers into set. Fully correct answers remove the
// question text; anything else adds it. Scoring is exact-match for every
// question, single- or multi-select.
func ApplyResult(set *weakness.Set, answers []quiz.UserAnswer) Delta {
	var d Delta
	for _, ua := range answers {
		text := ua.Question.Text
		if ua.FullyCorrect() {
			if set.Remove(text) {
				d.Cleared = append(d.Cleared, text)
			}
			continue
		}
		if set.Add(text) {
			d.Added = append(d.Added, text)
		}
	}
	return d
}

// Outcome is what the reducer hands to the results screen.
type Outcome struct {
	Summary Summary
	Delta   Delta

	// WeakCount is the size of the weakness set after the update.
	WeakCount int
}

// Reducer persists session results into the weakness tracker.
type Reducer struct {
	tracker *weakness.Tracker
}

// NewReducer returns a Reducer writing to t.
func NewReducer(t *weakness.Tracker) *Reducer {
	return &Reducer{tracker: t}
}

// Reduce updates the stored weakness set from r and builds the summary.
// Call it only after the session has finished.
func (rd *Reducer) Reduce(ctx context.Context, r *quiz.SessionResult) (Outcome, error) {
	var delta Delta
	set, err := rd.tracker.Update(ctx, func(s *weakness.Set) {
		delta = ApplyResult(s, r.Answers)
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("reduce session result: %w", err)
	}
	return Outcome{Summary: BuildSummary(r), Delta: delta, WeakCount: set.Len()}, nil
}
