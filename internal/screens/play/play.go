// Package play is the screen that runs one quiz session.
package play

import (
	"context"
	"log"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/screens/results"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/store"
	"github.com/abhisek/quizreplay/internal/ui/components"
	"github.com/abhisek/quizreplay/internal/ui/layout"
)

// PlayScreen implements screen.Screen for an active quiz.
type PlayScreen struct {
	svc       *screen.Services
	sess      *session.Session
	sessionID string
	files     []string
	retry     bool

	list        components.Checklist
	confirmQuit bool
	finishing   bool

	tickID  int
	elapsed time.Duration

	explaining  bool
	explanation string
	explainErr  string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New starts a session over the composed questions. files are the report
// names recorded in history; retry marks a replay of the previous set.
func New(svc *screen.Services, composed []quiz.Question, files []string, retry bool) (*PlayScreen, error) {
	sess, err := session.New(composed, svc.Clock())
	if err != nil {
		return nil, err
	}
	p := &PlayScreen{
		svc:       svc,
		sess:      sess,
		sessionID: uuid.NewString(),
		files:     files,
		retry:     retry,
	}
	p.resetList()
	return p, nil
}

func (p *PlayScreen) Init() tea.Cmd {
	return tick(p.tickID)
}

func (p *PlayScreen) Title() string {
	return "Quiz"
}

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	if p.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch p.sess.Phase() {
	case session.PhaseAwaitingSelection:
		if p.sess.Current().IsMultiSelect() {
			return []layout.KeyHint{
				{Key: "↑↓", Description: "Move"},
				{Key: "Space/A-D", Description: "Toggle"},
				{Key: "Enter", Description: "Submit"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter/A-D", Description: "Answer"},
			{Key: "Esc", Description: "Quit"},
		}
	case session.PhaseRevealed:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if p.svc.Explainer.Available() {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
	}
	return nil
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return p.handleTick(msg)
	case explainMsg:
		return p.handleExplain(msg)
	case finishedMsg:
		return p.handleFinished(msg)
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PlayScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.id != p.tickID || p.sess.Phase() == session.PhaseFinished {
		return p, nil
	}
	p.elapsed = p.sess.Elapsed()
	return p, tick(p.tickID)
}

func (p *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if p.finishing {
		return p, nil
	}

	if p.confirmQuit {
		switch key {
		case "y", "Y":
			p.stopTimer()
			return p, router.Pop
		case "n", "N", "esc":
			p.confirmQuit = false
		}
		return p, nil
	}

	if key == "esc" {
		p.confirmQuit = true
		return p, nil
	}

	switch p.sess.Phase() {
	case session.PhaseAwaitingSelection:
		return p.handleSelectionKey(msg)
	case session.PhaseRevealed:
		return p.handleRevealedKey(key)
	}
	return p, nil
}

func (p *PlayScreen) handleSelectionKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	multi := p.sess.Current().IsMultiSelect()

	if i, ok := optionIndex(key); ok {
		p.choose(i)
		return p, nil
	}

	switch key {
	case "up", "k", "down", "j":
		p.list = p.list.Update(msg)
	case "space", " ":
		p.choose(p.list.Cursor)
	case "enter":
		if multi {
			p.sess.Submit()
		} else {
			p.choose(p.list.Cursor)
		}
	}
	return p, nil
}

func (p *PlayScreen) handleRevealedKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "e", "E":
		return p, p.requestExplanation()
	case "enter", "space", " ", "n", "right":
		return p, p.advance()
	}
	return p, nil
}

func (p *PlayScreen) choose(i int) {
	if p.sess.Choose(i) {
		p.list.Cursor = i
	}
}

// advance moves to the next question, or records the result after the last one.
func (p *PlayScreen) advance() tea.Cmd {
	if !p.sess.Advance() {
		return nil
	}
	p.clearExplanation()
	if p.sess.Phase() != session.PhaseFinished {
		p.resetList()
		return nil
	}
	p.stopTimer()
	p.elapsed = p.sess.Elapsed()
	p.finishing = true
	return p.finish()
}

// finish reduces the result into the weakness set and appends the session
// to history. Persistence failures are logged and shown as a warning; the
// summary is still displayed.
func (p *PlayScreen) finish() tea.Cmd {
	result, _ := p.sess.Result()
	svc := p.svc
	data := store.SessionEventData{
		SessionID: p.sessionID,
		Files:     p.files,
		Retry:     p.retry,
	}

	return func() tea.Msg {
		ctx := context.Background()

		outcome, err := svc.Reducer.Reduce(ctx, result)
		if err != nil {
			log.Printf("reduce session %s: %v", data.SessionID, err)
			outcome = session.Outcome{Summary: session.BuildSummary(result)}
			return finishedMsg{outcome: outcome, warn: "Could not save weak questions."}
		}

		if svc.Events == nil {
			return finishedMsg{outcome: outcome}
		}
		sum := outcome.Summary
		data.Total = sum.Total
		data.Correct = sum.Correct
		data.Incorrect = sum.Incorrect
		data.DurationSecs = result.DurationSeconds
		data.Percentage = sum.Percentage
		data.Grade = sum.Grade
		data.WeakAdded = len(outcome.Delta.Added)
		data.WeakCleared = len(outcome.Delta.Cleared)

		if err := svc.Events.AppendSessionEvent(ctx, data); err != nil {
			log.Printf("record session %s: %v", data.SessionID, err)
			return finishedMsg{outcome: outcome, warn: "Could not save session history."}
		}
		if svc.HistoryLimit > 0 {
			if err := svc.Events.PruneSessionEvents(ctx, svc.HistoryLimit); err != nil {
				log.Printf("prune history: %v", err)
			}
		}
		return finishedMsg{outcome: outcome}
	}
}

func (p *PlayScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	svc, questions, files := p.svc, p.sess.Questions(), p.files
	retry := func() (screen.Screen, error) {
		return New(svc, session.Retry(questions, svc.Rand), files, true)
	}
	next := results.New(msg.outcome, msg.warn, retry)
	count := msg.outcome.WeakCount
	cmds := []tea.Cmd{router.Replace(next)}
	if msg.warn == "" {
		cmds = append(cmds, func() tea.Msg { return screen.WeakCountMsg{Count: count} })
	}
	return p, tea.Batch(cmds...)
}

func (p *PlayScreen) requestExplanation() tea.Cmd {
	if !p.svc.Explainer.Available() || p.explaining || p.explanation != "" {
		return nil
	}
	p.explaining = true
	p.explainErr = ""

	q := p.sess.Current()
	index := p.sess.Index()
	var selected []int
	for i := range q.Answers {
		if p.sess.IsSelected(i) {
			selected = append(selected, i)
		}
	}
	explainer := p.svc.Explainer
	timeout := p.svc.ExplainTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := explainer.Explain(ctx, q, selected)
		return explainMsg{index: index, text: text, err: err}
	}
}

func (p *PlayScreen) handleExplain(msg explainMsg) (screen.Screen, tea.Cmd) {
	// The learner may have moved on while the request was in flight.
	if msg.index != p.sess.Index() || p.sess.Phase() != session.PhaseRevealed {
		return p, nil
	}
	p.explaining = false
	if msg.err != nil {
		log.Printf("explain question %d: %v", msg.index, msg.err)
		p.explainErr = "Could not get an explanation."
		return p, nil
	}
	p.explanation = msg.text
	return p, nil
}

func (p *PlayScreen) clearExplanation() {
	p.explaining = false
	p.explanation = ""
	p.explainErr = ""
}

func (p *PlayScreen) stopTimer() {
	p.tickID++
}

func (p *PlayScreen) resetList() {
	q := p.sess.Current()
	labels := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		labels[i] = a.Text
	}
	p.list = components.NewChecklist(labels, q.IsMultiSelect())
	p.list.State = p.optionState
}

func (p *PlayScreen) optionState(i int) components.OptionState {
	picked := p.sess.IsSelected(i)
	if p.sess.Phase() == session.PhaseAwaitingSelection {
		if picked {
			return components.OptionPicked
		}
		return components.OptionIdle
	}
	correct := p.sess.Current().Answers[i].IsCorrect
	switch {
	case correct && picked:
		return components.OptionCorrect
	case correct:
		return components.OptionMissed
	case picked:
		return components.OptionWrongPick
	default:
		return components.OptionIrrelevant
	}
}

// optionIndex maps "1".."8" and "a".."h" to an option index.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(components.OptionLabels) {
		return n - 1, true
	}
	c := key[0] | 0x20 // lower-case ASCII letters
	if c >= 'a' && c < 'a'+byte(len(components.OptionLabels)) {
		return int(c - 'a'), true
	}
	return 0, false
}

func tick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}
