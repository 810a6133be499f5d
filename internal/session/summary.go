package session

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/quizreplay/internal/quiz"
)

// Summary holds the data displayed on the results screen.
type Summary struct {
	Percentage int
	Grade      string
	Correct    int
	Incorrect  int
	Total      int
	Duration   time.Duration
}

// BuildSummary derives display statistics from a result.
func BuildSummary(r *quiz.SessionResult) Summary {
	pct := Percentage(r.CorrectCount, r.Total)
	return Summary{
		Percentage: pct,
		Grade:      Grade(pct),
		Correct:    r.CorrectCount,
		Incorrect:  r.IncorrectCount,
		Total:      r.Total,
		Duration:   time.Duration(r.DurationSeconds) * time.Second,
	}
}

// Percentage returns round(correct/total*100) clamped to [0, 100].
// An empty session scores 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(correct) / float64(total) * 100))
	return max(0, min(pct, 100))
}

// Grade maps a percentage to a letter grade.
func Grade(pct int) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
