package session

import (
	"slices"

	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/weakness"
)

// Compose orders parsed questions for a new attempt. Questions whose text is
// in weak are copied with IsWeakness set. Both groups are shuffled on their
// own and weak questions come first. The input is not modified.
func Compose(questions []quiz.Question, weak *weakness.Set, r quiz.Rand) []quiz.Question {
	var weakQs, normal []quiz.Question
	for _, q := range questions {
		if weak != nil && weak.Contains(q.Text) {
			q.IsWeakness = true
			weakQs = append(weakQs, q)
			continue
		}
		normal = append(normal, q)
	}
	return append(quiz.Shuffle(weakQs, r), quiz.Shuffle(normal, r)...)
}

// Retry replays an already composed list. Question order and weakness tags
// are kept; the options of every question are reshuffled.
func Retry(composed []quiz.Question, r quiz.Rand) []quiz.Question {
	out := slices.Clone(composed)
	for i := range out {
		out[i].Answers = quiz.Shuffle(out[i].Answers, r)
	}
	return out
}
