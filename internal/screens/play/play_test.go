package play

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizreplay/internal/explain"
	"github.com/abhisek/quizreplay/internal/llm"
	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/screen/screentest"
	"github.com/abhisek/quizreplay/internal/screens/results"
	"github.com/abhisek/quizreplay/internal/session"
)

var (
	keyPress   = screentest.KeyPress
	specialKey = screentest.SpecialKey
)

func testPlayScreen(t *testing.T) (*PlayScreen, *screentest.Fixture) {
	t.Helper()
	fx := screentest.NewFixture()
	p, err := New(fx.Services, screentest.Questions(), []string{"week1.xlsx"}, false)
	require.NoError(t, err)
	return p, fx
}

func press(p *PlayScreen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = p.Update(m)
	}
	return cmd
}

func TestPlayScreen_NewRejectsEmpty(t *testing.T) {
	fx := screentest.NewFixture()
	_, err := New(fx.Services, nil, nil, false)
	assert.Error(t, err)
}

func TestPlayScreen_Title(t *testing.T) {
	p, _ := testPlayScreen(t)
	if p.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", p.Title(), "Quiz")
	}
}

func TestPlayScreen_SingleSelectScoresImmediately(t *testing.T) {
	p, _ := testPlayScreen(t)

	press(p, keyPress('2'))

	assert.Equal(t, session.PhaseRevealed, p.sess.Phase())
	assert.Equal(t, 1, p.sess.Correct())
	assert.Contains(t, p.View(80, 24), "Correct!")
}

func TestPlayScreen_LetterKeysPickOptions(t *testing.T) {
	p, _ := testPlayScreen(t)

	press(p, keyPress('a'))

	assert.Equal(t, session.PhaseRevealed, p.sess.Phase())
	assert.Equal(t, 1, p.sess.Incorrect())
	view := p.View(80, 24)
	assert.Contains(t, view, "Not quite")
	assert.Contains(t, view, "B) Blue")
}

func TestPlayScreen_CursorAndEnter(t *testing.T) {
	p, _ := testPlayScreen(t)

	press(p, specialKey(tea.KeyDown), specialKey(tea.KeyEnter))

	assert.Equal(t, session.PhaseRevealed, p.sess.Phase())
	assert.Equal(t, 1, p.sess.Correct())
}

func TestPlayScreen_KeysIgnoredWhileRevealed(t *testing.T) {
	p, _ := testPlayScreen(t)
	press(p, keyPress('2'))

	press(p, keyPress('1'))

	assert.Equal(t, 1, p.sess.Correct())
	assert.Equal(t, 0, p.sess.Incorrect())
}

func TestPlayScreen_MultiSelectNeedsSubmit(t *testing.T) {
	p, _ := testPlayScreen(t)
	press(p, keyPress('2'), specialKey(tea.KeyEnter))
	require.Equal(t, 1, p.sess.Index())

	// Nothing picked yet: Enter is a no-op.
	press(p, specialKey(tea.KeyEnter))
	assert.Equal(t, session.PhaseAwaitingSelection, p.sess.Phase())

	press(p, keyPress('a'), keyPress('b'))
	assert.Equal(t, session.PhaseAwaitingSelection, p.sess.Phase())
	assert.Equal(t, 2, p.sess.PendingCount())
	assert.Contains(t, p.View(80, 24), "Select all that apply (2 correct) · 2 selected")

	press(p, keyPress('b'))
	assert.Contains(t, p.View(80, 24), "· 1 selected")
	press(p, keyPress('b'))

	press(p, specialKey(tea.KeyEnter))
	assert.Equal(t, session.PhaseRevealed, p.sess.Phase())
	assert.Equal(t, 2, p.sess.Correct())
}

func TestPlayScreen_SpaceTogglesUnderCursor(t *testing.T) {
	p, _ := testPlayScreen(t)
	press(p, keyPress('2'), specialKey(tea.KeyEnter))

	press(p, specialKey(tea.KeySpace))
	assert.True(t, p.sess.IsSelected(0))

	press(p, specialKey(tea.KeySpace))
	assert.False(t, p.sess.IsSelected(0))
}

func TestPlayScreen_QuitConfirm(t *testing.T) {
	p, _ := testPlayScreen(t)

	press(p, specialKey(tea.KeyEscape))
	if !p.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	assert.Contains(t, p.View(80, 24), "Abandon this quiz?")

	// Option keys do nothing while the dialog is open.
	press(p, keyPress('2'))
	assert.Equal(t, session.PhaseAwaitingSelection, p.sess.Phase())

	press(p, keyPress('n'))
	if p.confirmQuit {
		t.Error("expected quit confirmation to be dismissed")
	}
}

func TestPlayScreen_QuitConfirm_Yes(t *testing.T) {
	p, fx := testPlayScreen(t)
	id := p.tickID

	press(p, specialKey(tea.KeyEscape))
	cmd := press(p, keyPress('y'))

	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
	assert.NotEqual(t, id, p.tickID, "timer should be stopped")
	assert.Empty(t, fx.Events.Sessions, "abandoned sessions are not recorded")
}

func TestPlayScreen_Tick(t *testing.T) {
	p, fx := testPlayScreen(t)
	fx.Clock.Advance(3 * time.Second)

	_, cmd := p.Update(tickMsg{id: p.tickID})
	assert.NotNil(t, cmd, "a live tick schedules the next one")
	assert.Equal(t, 3*time.Second, p.elapsed)

	_, cmd = p.Update(tickMsg{id: p.tickID - 1})
	assert.Nil(t, cmd, "stale ticks are dropped")
}

func TestPlayScreen_FinishRecordsSession(t *testing.T) {
	p, fx := testPlayScreen(t)
	fx.Clock.Advance(42 * time.Second)

	// Miss the first question, get the second right.
	press(p, keyPress('1'), specialKey(tea.KeyEnter))
	press(p, keyPress('1'), keyPress('2'), specialKey(tea.KeyEnter))
	cmd := press(p, specialKey(tea.KeyEnter))

	require.NotNil(t, cmd)
	assert.True(t, p.finishing)
	assert.Contains(t, p.View(80, 24), "Saving results")

	msg, ok := cmd().(finishedMsg)
	require.True(t, ok)
	assert.Empty(t, msg.warn)
	assert.Equal(t, 50, msg.outcome.Summary.Percentage)
	assert.Equal(t, "F", msg.outcome.Summary.Grade)
	assert.Equal(t, []string{"What color is a clear daytime sky?"}, msg.outcome.Delta.Added)
	assert.Equal(t, 1, msg.outcome.WeakCount)

	require.Len(t, fx.Events.Sessions, 1)
	rec := fx.Events.Sessions[0]
	assert.Equal(t, p.sessionID, rec.SessionID)
	assert.Equal(t, 2, rec.Total)
	assert.Equal(t, 1, rec.Correct)
	assert.Equal(t, 1, rec.Incorrect)
	assert.Equal(t, 42, rec.DurationSecs)
	assert.Equal(t, 1, rec.WeakAdded)
	assert.Equal(t, []string{"week1.xlsx"}, rec.Files)
	assert.False(t, rec.Retry)
	assert.Equal(t, []int{10}, fx.Events.Pruned)

	set, err := fx.Services.Tracker.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Contains("What color is a clear daytime sky?"))

	// Delivering the result swaps in the results screen.
	msgs := screentest.Run(press(p, msg))
	require.Len(t, msgs, 2)
	replace, ok := msgs[0].(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &results.ResultsScreen{}, replace.Screen)
	assert.Equal(t, screen.WeakCountMsg{Count: 1}, msgs[1])

	// Ticks after the finish are ignored.
	_, tickCmd := p.Update(tickMsg{id: p.tickID})
	assert.Nil(t, tickCmd)
}

func TestPlayScreen_FinishWarnsWhenHistoryFails(t *testing.T) {
	p, fx := testPlayScreen(t)
	fx.Events.AppendErr = errors.New("disk full")

	press(p, keyPress('2'), specialKey(tea.KeyEnter))
	press(p, keyPress('1'), keyPress('2'), specialKey(tea.KeyEnter))
	cmd := press(p, specialKey(tea.KeyEnter))

	msg, ok := cmd().(finishedMsg)
	require.True(t, ok)
	assert.Equal(t, "Could not save session history.", msg.warn)
	assert.Equal(t, 100, msg.outcome.Summary.Percentage)
	assert.Empty(t, fx.Events.Pruned)

	// No weak count update is sent with a warning.
	msgs := screentest.Run(press(p, msg))
	require.Len(t, msgs, 1)
	assert.IsType(t, router.ReplaceScreenMsg{}, msgs[0])
}

func TestPlayScreen_RetryReplaysSameQuestions(t *testing.T) {
	p, _ := testPlayScreen(t)
	press(p, keyPress('2'), specialKey(tea.KeyEnter))
	press(p, keyPress('1'), keyPress('2'), specialKey(tea.KeyEnter))
	finished := press(p, specialKey(tea.KeyEnter))()

	replace := screentest.Run(press(p, finished))[0].(router.ReplaceScreenMsg)

	// Retry is the first results menu item.
	_, cmd := replace.Screen.Update(specialKey(tea.KeyEnter))
	msgs := screentest.Run(cmd)
	require.Len(t, msgs, 1)
	next, ok := msgs[0].(router.ReplaceScreenMsg)
	require.True(t, ok)
	replay, ok := next.Screen.(*PlayScreen)
	require.True(t, ok)

	assert.True(t, replay.retry)
	assert.Equal(t, p.files, replay.files)
	assert.NotEqual(t, p.sessionID, replay.sessionID)
	assert.Equal(t, p.sess.Questions()[0].Text, replay.sess.Current().Text)
	assert.Equal(t, 0, replay.sess.Correct())
}

func testExplainer(responses ...llm.MockResponse) (*explain.Explainer, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return explain.New(mock, explain.DefaultConfig()), mock
}

func TestPlayScreen_Explain(t *testing.T) {
	p, fx := testPlayScreen(t)
	ex, mock := testExplainer(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"Rayleigh scattering favours short wavelengths."}`),
	})
	fx.Services.Explainer = ex

	// Not available before the answer is revealed.
	assert.Nil(t, press(p, keyPress('e')))

	press(p, keyPress('1'))
	cmd := press(p, keyPress('e'))
	require.NotNil(t, cmd)
	assert.Contains(t, p.View(80, 24), "Asking for an explanation")

	// A second press while in flight does nothing.
	assert.Nil(t, press(p, keyPress('e')))

	msg := cmd()
	press(p, msg)
	assert.Equal(t, "Rayleigh scattering favours short wavelengths.", p.explanation)
	assert.Contains(t, p.View(100, 30), "Rayleigh scattering")
	assert.Equal(t, 1, mock.CallCount())

	// Advancing clears it.
	press(p, specialKey(tea.KeyEnter))
	assert.Empty(t, p.explanation)
}

func TestPlayScreen_ExplainError(t *testing.T) {
	p, fx := testPlayScreen(t)
	ex, _ := testExplainer(llm.MockResponse{Err: errors.New("boom")})
	fx.Services.Explainer = ex

	press(p, keyPress('1'))
	press(p, press(p, keyPress('e'))())

	assert.Equal(t, "Could not get an explanation.", p.explainErr)
	assert.False(t, p.explaining)
}

func TestPlayScreen_StaleExplanationDropped(t *testing.T) {
	p, fx := testPlayScreen(t)
	ex, _ := testExplainer(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"late"}`),
	})
	fx.Services.Explainer = ex

	press(p, keyPress('1'))
	cmd := press(p, keyPress('e'))
	press(p, specialKey(tea.KeyEnter))
	press(p, cmd())

	assert.Empty(t, p.explanation)
}

func TestPlayScreen_ExplainUnavailable(t *testing.T) {
	p, _ := testPlayScreen(t)
	press(p, keyPress('1'))

	assert.Nil(t, press(p, keyPress('e')))
	for _, h := range p.KeyHints() {
		if h.Key == "E" {
			t.Error("explain hint shown without a provider")
		}
	}
}

func TestPlayScreen_WeakBanner(t *testing.T) {
	fx := screentest.NewFixture()
	qs := screentest.Questions()
	qs[0].IsWeakness = true
	p, err := New(fx.Services, qs, nil, false)
	require.NoError(t, err)

	assert.Contains(t, p.View(80, 24), "You missed this one last time")
}

func TestOptionIndex(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"8", 7, true},
		{"9", 0, false},
		{"0", 0, false},
		{"a", 0, true},
		{"D", 3, true},
		{"h", 7, true},
		{"i", 0, false},
		{"enter", 0, false},
	}
	for _, tt := range tests {
		got, ok := optionIndex(tt.key)
		if ok != tt.ok || got != tt.want {
			t.Errorf("optionIndex(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPlayScreen_KeyHints(t *testing.T) {
	p, _ := testPlayScreen(t)
	assert.Contains(t, keys(p), "Answer")

	press(p, keyPress('2'), specialKey(tea.KeyEnter))
	assert.Contains(t, keys(p), "Submit")

	press(p, specialKey(tea.KeyEscape))
	assert.Contains(t, keys(p), "Abandon")
}

func keys(p *PlayScreen) string {
	var parts []string
	for _, h := range p.KeyHints() {
		parts = append(parts, h.Description)
	}
	return strings.Join(parts, " ")
}
