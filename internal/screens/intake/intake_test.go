package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizreplay/internal/router"
	"github.com/abhisek/quizreplay/internal/screen"
	"github.com/abhisek/quizreplay/internal/screen/screentest"
	"github.com/abhisek/quizreplay/internal/screens/play"
	"github.com/abhisek/quizreplay/internal/weakness"
	"github.com/abhisek/quizreplay/internal/workbook/workbooktest"
)

var (
	keyPress   = screentest.KeyPress
	specialKey = screentest.SpecialKey
)

func typeText(s *IntakeScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func writeReport(t *testing.T, name string, sheets ...workbooktest.Sheet) string {
	t.Helper()
	data, err := workbooktest.Build(sheets...)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestIntakeScreen_Title(t *testing.T) {
	s := New(screentest.NewFixture().Services)
	if s.Title() != "New Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "New Quiz")
	}
}

func TestIntakeScreen_RejectsNonXLSX(t *testing.T) {
	s := New(screentest.NewFixture().Services, "notes.csv")

	assert.Empty(t, s.Paths())
	assert.Contains(t, s.View(80, 24), "Please upload only .xlsx files.")
}

func TestIntakeScreen_TypeAndAdd(t *testing.T) {
	s := New(screentest.NewFixture().Services)

	typeText(s, "notes.txt")
	s.Update(specialKey(tea.KeyEnter))
	assert.Empty(t, s.Paths())
	assert.Equal(t, "Please upload only .xlsx files.", s.errMsg)

	s.input.Reset()
	typeText(s, `"week1.XLSX"`)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"week1.XLSX"}, s.Paths())
	assert.Empty(t, s.errMsg)
	assert.Empty(t, s.input.Value())

	// Adding the same path twice keeps one entry and says so.
	typeText(s, "week1.XLSX")
	s.Update(specialKey(tea.KeyEnter))
	assert.Len(t, s.Paths(), 1)
	assert.Equal(t, "That file is already in the list.", s.errMsg)
}

func TestIntakeScreen_StartWithoutFiles(t *testing.T) {
	s := New(screentest.NewFixture().Services)

	_, cmd := s.Update(specialKey(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.False(t, s.processing)
	assert.Equal(t, "Add at least one .xlsx file first.", s.errMsg)
}

func TestIntakeScreen_SelectAndRemove(t *testing.T) {
	s := New(screentest.NewFixture().Services, "a.xlsx", "b.xlsx", "c.xlsx")

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 2, s.selected)

	s.Update(tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl})
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, s.Paths())
	assert.Equal(t, 1, s.selected)

	s.Update(specialKey(tea.KeyUp))
	s.Update(tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl})
	assert.Equal(t, []string{"b.xlsx"}, s.Paths())
	assert.Equal(t, 0, s.selected)
}

func TestIntakeScreen_Reset(t *testing.T) {
	s := New(screentest.NewFixture().Services, "a.xlsx", "bad.doc")
	require.NotEmpty(t, s.errMsg)

	s.Update(screen.ResetMsg{})

	assert.Empty(t, s.Paths())
	assert.Empty(t, s.errMsg)
	assert.Contains(t, s.View(80, 24), "No files added yet.")
}

func TestIntakeScreen_Esc(t *testing.T) {
	s := New(screentest.NewFixture().Services)

	_, cmd := s.Update(specialKey(tea.KeyEscape))

	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestIntakeScreen_StartComposesAndPushesPlay(t *testing.T) {
	fx := screentest.NewFixture()
	path := writeReport(t, "week1.xlsx",
		workbooktest.ReportSheet("1 Quiz", "Capital of France?", []string{"Paris", "Rome"}, "Paris"),
		workbooktest.ReportSheet("2 Quiz", "Largest ocean?", []string{"Atlantic", "Pacific"}, "Pacific"),
	)
	require.NoError(t, fx.Services.Tracker.Save(context.Background(), weakness.NewSet("Largest ocean?")))

	s := New(fx.Services, path).WithAutoStart()
	cmd := s.Init()
	require.NotNil(t, cmd)
	assert.True(t, s.processing)
	assert.Contains(t, s.View(80, 24), "Processing files")

	// Keys are ignored while parsing.
	_, keyCmd := s.Update(specialKey(tea.KeyEscape))
	assert.Nil(t, keyCmd)

	msg, ok := cmd().(parsedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	require.Len(t, msg.questions, 2)
	assert.Equal(t, "Largest ocean?", msg.questions[0].Text)
	assert.True(t, msg.questions[0].IsWeakness)
	assert.False(t, msg.questions[1].IsWeakness)
	assert.Equal(t, []string{"week1.xlsx"}, msg.files)

	_, cmd = s.Update(msg)
	assert.False(t, s.processing)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &play.PlayScreen{}, push.Screen)
}

func TestIntakeScreen_AutoStartBlockedByRejectedPath(t *testing.T) {
	good := writeReport(t, "week1.xlsx",
		workbooktest.ReportSheet("1 Quiz", "Capital of France?", []string{"Paris", "Rome"}, "Paris"))

	s := New(screentest.NewFixture().Services, "notes.csv", good).WithAutoStart()
	s.Init()

	assert.False(t, s.processing)
	assert.Equal(t, []string{good}, s.Paths())
	assert.Equal(t, "Please upload only .xlsx files.", s.errMsg)
	assert.Contains(t, s.View(80, 24), "Please upload only .xlsx files.")
}

func TestIntakeScreen_StartReportsDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	s := New(screentest.NewFixture().Services, path)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	s.Update(cmd())

	assert.False(t, s.processing)
	assert.Equal(t, "Error processing files.", s.errMsg)
}

func TestIntakeScreen_StartReportsNoQuestions(t *testing.T) {
	path := writeReport(t, "overview.xlsx")

	s := New(screentest.NewFixture().Services, path)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	s.Update(cmd())

	assert.Equal(t, "No valid questions found in the files.", s.errMsg)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"report.xlsx", "report.xlsx"},
		{"  'quoted name.xlsx' ", "quoted name.xlsx"},
		{`"/tmp/r.xlsx"`, "/tmp/r.xlsx"},
		{"~/reports/r.xlsx", filepath.Join(home, "reports", "r.xlsx")},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
