package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/weakness"
)

func answer(q quiz.Question, picks ...int) quiz.UserAnswer {
	return quiz.UserAnswer{Question: q, Selected: picks}
}

func TestApplyResult(t *testing.T) {
	set := weakness.NewSet("already weak", "m")

	delta := ApplyResult(set, []quiz.UserAnswer{
		answer(singleQ("already weak"), 0), // wrong, stays
		answer(singleQ("new miss"), 2),     // wrong, added
		answer(multiQ("m"), 0, 2),          // exact, cleared
		answer(singleQ("fine"), 1),         // right, was absent
	})

	assert.Equal(t, []string{"already weak", "new miss"}, set.Items())
	assert.Equal(t, []string{"new miss"}, delta.Added)
	assert.Equal(t, []string{"m"}, delta.Cleared)
}

func TestApplyResultIdempotent(t *testing.T) {
	set := weakness.NewSet()

	ApplyResult(set, []quiz.UserAnswer{answer(singleQ("q"), 0)})
	ApplyResult(set, []quiz.UserAnswer{answer(singleQ("q"), 0)})
	assert.Equal(t, []string{"q"}, set.Items(), "two misses leave one entry")

	ApplyResult(set, []quiz.UserAnswer{answer(singleQ("q"), 1)})
	ApplyResult(set, []quiz.UserAnswer{answer(singleQ("q"), 1)})
	assert.Equal(t, 0, set.Len(), "two correct answers leave it absent")
}

func TestApplyResultUsesExactMatchForSingleSelect(t *testing.T) {
	set := weakness.NewSet()
	// Selection of two options on a single-correct question is not fully correct.
	ApplyResult(set, []quiz.UserAnswer{answer(singleQ("q"), 1, 0)})
	assert.True(t, set.Contains("q"))
}

func TestReducerPersists(t *testing.T) {
	ctx := context.Background()
	kv := weakness.NewMemoryKV()
	tracker := weakness.NewTracker(kv, "")
	require.NoError(t, tracker.Save(ctx, weakness.NewSet("m")))

	result := &quiz.SessionResult{
		CorrectCount:    1,
		IncorrectCount:  1,
		Total:           2,
		DurationSeconds: 75,
		Answers: []quiz.UserAnswer{
			answer(singleQ("What color is the sky?"), 0),
			answer(multiQ("m"), 2, 0),
		},
	}

	out, err := NewReducer(tracker).Reduce(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 50, out.Summary.Percentage)
	assert.Equal(t, "F", out.Summary.Grade)
	assert.Equal(t, []string{"What color is the sky?"}, out.Delta.Added)
	assert.Equal(t, []string{"m"}, out.Delta.Cleared)
	assert.Equal(t, 1, out.WeakCount)

	raw, ok, err := kv.Get(ctx, weakness.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["What color is the sky?"]`, raw)
}
