package play

import (
	"github.com/abhisek/quizreplay/internal/session"
)

// tickMsg drives the elapsed-time display. id ties it to one timer run;
// ticks from a stopped run are dropped.
type tickMsg struct {
	id int
}

// explainMsg carries an explanation for the question at index.
type explainMsg struct {
	index int
	text  string
	err   error
}

// finishedMsg is sent once the result has been reduced and recorded.
type finishedMsg struct {
	outcome session.Outcome
	warn    string
}
