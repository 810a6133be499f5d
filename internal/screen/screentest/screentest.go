// Package screentest holds fixtures shared by screen tests.
package screentest

import (
	"context"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizreplay/internal/extract"
	"github.com/abhisek/quizreplay/internal/parser"
	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/store"
	"github.com/abhisek/quizreplay/internal/weakness"
)

// KeyPress returns a printable key press.
func KeyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// SpecialKey returns a non-printable key press such as tea.KeyEnter.
func SpecialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Run executes cmd and flattens batches into their messages. A nil cmd
// yields no messages.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// InOrder is a Rand that makes quiz.Shuffle return its input unchanged.
type InOrder struct{}

func (InOrder) IntN(n int) int { return n - 1 }

// Clock is a manual clock for session timing.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock set to a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Events is an in-memory store.EventRepo.
type Events struct {
	mu       sync.Mutex
	Sessions []store.SessionEventData
	LLM      []store.LLMRequestEventData
	Pruned   []int
	Cleared  int

	// AppendErr is returned by AppendSessionEvent when set.
	AppendErr error
}

var _ store.EventRepo = (*Events)(nil)

func (e *Events) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.LLM = append(e.LLM, data)
	return nil
}

func (e *Events) QueryLLMEvents(_ context.Context, _ store.QueryOpts) ([]store.LLMRequestEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]store.LLMRequestEvent, 0, len(e.LLM))
	for i := len(e.LLM) - 1; i >= 0; i-- {
		out = append(out, store.LLMRequestEvent{ID: i + 1, Sequence: int64(i + 1), LLMRequestEventData: e.LLM[i]})
	}
	return out, nil
}

func (e *Events) GetLLMEvent(_ context.Context, id int) (*store.LLMRequestEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id < 1 || id > len(e.LLM) {
		return nil, nil
	}
	return &store.LLMRequestEvent{ID: id, Sequence: int64(id), LLMRequestEventData: e.LLM[id-1]}, nil
}

func (e *Events) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.AppendErr != nil {
		return e.AppendErr
	}
	e.Sessions = append(e.Sessions, data)
	return nil
}

// QuerySessionEvents returns sessions newest first, honoring Limit.
func (e *Events) QuerySessionEvents(_ context.Context, opts store.QueryOpts) ([]store.SessionEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []store.SessionEvent
	for i := len(e.Sessions) - 1; i >= 0; i-- {
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
		out = append(out, store.SessionEvent{
			ID:               i + 1,
			Sequence:         int64(i + 1),
			Timestamp:        time.Date(2025, 3, 1, 9, i, 0, 0, time.UTC),
			SessionEventData: e.Sessions[i],
		})
	}
	return out, nil
}

func (e *Events) PruneSessionEvents(_ context.Context, keep int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Pruned = append(e.Pruned, keep)
	if keep > 0 && len(e.Sessions) > keep {
		e.Sessions = e.Sessions[len(e.Sessions)-keep:]
	}
	return nil
}

func (e *Events) ClearSessionEvents(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Sessions = nil
	e.Cleared++
	return nil
}

// Fixture is a Services value backed by in-memory stores.
type Fixture struct {
	Services *screen.Services
	KV       *weakness.MemoryKV
	Events   *Events
	Clock    *Clock
}

// NewFixture wires Services with an in-order shuffle, an in-memory weakness
// store and event log, and a manual clock.
func NewFixture() *Fixture {
	kv := weakness.NewMemoryKV()
	tracker := weakness.NewTracker(kv, "")
	events := &Events{}
	clock := NewClock()
	r := InOrder{}
	return &Fixture{
		Services: &screen.Services{
			Parser:       parser.New(extract.New(extract.DefaultLayout, r)),
			Tracker:      tracker,
			Reducer:      session.NewReducer(tracker),
			Rand:         r,
			Events:       events,
			HistoryLimit: 10,
			Now:          clock.Now,
		},
		KV:     kv,
		Events: events,
		Clock:  clock,
	}
}

// Questions returns a single-select question followed by a multi-select one.
func Questions() []quiz.Question {
	return []quiz.Question{
		{
			ID:   "1 Quiz",
			Text: "What color is a clear daytime sky?",
			Answers: []quiz.Answer{
				{Text: "Red"},
				{Text: "Blue", IsCorrect: true},
				{Text: "Green"},
			},
		},
		{
			ID:   "2 Quiz",
			Text: "Which numbers are prime?",
			Answers: []quiz.Answer{
				{Text: "2", IsCorrect: true},
				{Text: "3", IsCorrect: true},
				{Text: "4"},
			},
		},
	}
}
