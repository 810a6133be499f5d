package quiz

// Answer is one option of a question.
type Answer struct {
	// Text is the option label as it appeared in the report.
	Text string

	// IsCorrect is true when the report marked this option with the check mark.
	IsCorrect bool
}

// Question is a single quiz question extracted from one report sheet.
type Question struct {
	// ID is the name of the sheet the question was extracted from.
	ID string

	// Text is the question prompt. Weakness tracking matches on this value,
	// so two sheets with the same prompt count as the same weakness.
	Text string

	// Answers holds at least one option and at least one correct option.
	// The order is shuffled once at extraction and stays stable afterwards.
	Answers []Answer

	// IsWeakness marks a question the learner missed in an earlier session.
	IsWeakness bool
}

// UserAnswer records what the learner picked for one question.
type UserAnswer struct {
	Question Question

	// Selected holds indexes into Question.Answers, in selection order.
	Selected []int
}

// SessionResult is the outcome of one finished playthrough.
type SessionResult struct {
	CorrectCount    int
	IncorrectCount  int
	Total           int
	Answers         []UserAnswer
	DurationSeconds int
}

// CorrectCount returns the number of correct options in q.
func (q Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// IsMultiSelect reports whether q has more than one correct option.
func (q Question) IsMultiSelect() bool {
	return q.CorrectCount() > 1
}

// SelectedAnswers returns the answers the learner picked.
func (ua UserAnswer) SelectedAnswers() []Answer {
	out := make([]Answer, 0, len(ua.Selected))
	for _, i := range ua.Selected {
		if i >= 0 && i < len(ua.Question.Answers) {
			out = append(out, ua.Question.Answers[i])
		}
	}
	return out
}

// FullyCorrect reports whether the selection exactly matches the correct
// options: same size and every selected option correct. There is no
// partial credit.
func (ua UserAnswer) FullyCorrect() bool {
	selected := ua.SelectedAnswers()
	if len(selected) != len(ua.Selected) {
		return false
	}
	if len(selected) != ua.Question.CorrectCount() {
		return false
	}
	seen := make(map[int]bool, len(ua.Selected))
	for _, i := range ua.Selected {
		if seen[i] {
			return false
		}
		seen[i] = true
	}
	for _, a := range selected {
		if !a.IsCorrect {
			return false
		}
	}
	return true
}
