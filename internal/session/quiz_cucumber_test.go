//go:build cucumber

package session_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/quizreplay/internal/extract"
	"github.com/abhisek/quizreplay/internal/parser"
	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/session"
	"github.com/abhisek/quizreplay/internal/weakness"
	"github.com/abhisek/quizreplay/internal/workbook"
	"github.com/abhisek/quizreplay/internal/workbook/workbooktest"
)

// TestQuizFeatures runs the quiz replay scenarios via godog.
func TestQuizFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-replay",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/quiz.feature"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeScenario wires the step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &quizState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a sheet named "([^"]+)" asking "([^"]+)" with options "([^"]+)" where "([^"]+)" is correct$`, state.givenSheet)
	ctx.Step(`^a sheet named "([^"]+)" with fewer than 10 rows$`, state.givenShortSheet)
	ctx.Step(`^the sheet is extracted$`, state.extractSheet)
	ctx.Step(`^(\d+) questions? (?:is|are) extracted$`, state.questionCount)
	ctx.Step(`^the question has (\d+) answers$`, state.answerCount)
	ctx.Step(`^the correct answers are "([^"]+)"$`, state.correctAnswers)
	ctx.Step(`^I start a quiz with the extracted questions$`, state.startQuiz)
	ctx.Step(`^I select "([^"]+)"$`, state.selectAnswer)
	ctx.Step(`^I submit$`, state.submit)
	ctx.Step(`^the answer is scored as (correct|incorrect)$`, state.scoredAs)
	ctx.Step(`^(\d+) files without question sheets$`, state.givenEmptyFiles)
	ctx.Step(`^I parse the files$`, state.parseFiles)
	ctx.Step(`^parsing fails with no questions found$`, state.noQuestionsFound)
	ctx.Step(`^I finish the quiz$`, state.finishQuiz)
	ctx.Step(`^the weakness set contains "([^"]+)"$`, state.weaknessContains)
	ctx.Step(`^a new file holds "([^"]+)" and (\d+) other questions$`, state.givenNewFile)
	ctx.Step(`^the next quiz is composed$`, state.composeNext)
	ctx.Step(`^"([^"]+)" is first and tagged as a weakness$`, state.firstIsWeak)
	ctx.Step(`^no other question is tagged as a weakness$`, state.othersNotWeak)
}

type quizState struct {
	rand      quiz.Rand
	tracker   *weakness.Tracker
	sheet     workbooktest.Sheet
	files     []parser.File
	questions []quiz.Question
	composed  []quiz.Question
	session   *session.Session
	parseErr  error
}

func (s *quizState) reset() {
	*s = quizState{
		rand:    quiz.NewRand(11),
		tracker: weakness.NewTracker(weakness.NewMemoryKV(), ""),
	}
}

func (s *quizState) extractor() *extract.Extractor {
	return extract.New(extract.DefaultLayout, s.rand)
}

func (s *quizState) givenSheet(name, prompt, options, correct string) error {
	s.sheet = workbooktest.ReportSheet(name, prompt, strings.Split(options, ","), strings.Split(correct, ",")...)
	return nil
}

func (s *quizState) givenShortSheet(name string) error {
	s.sheet = workbooktest.ShortSheet(name, "Too short")
	return nil
}

func (s *quizState) extractSheet() error {
	data, err := workbooktest.Build(s.sheet)
	if err != nil {
		return err
	}
	wb, err := workbook.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.questions = s.extractor().Workbook(wb)
	return nil
}

func (s *quizState) questionCount(n int) error {
	if len(s.questions) != n {
		return fmt.Errorf("got %d questions, want %d", len(s.questions), n)
	}
	return nil
}

func (s *quizState) answerCount(n int) error {
	if err := s.questionCount(1); err != nil {
		return err
	}
	if got := len(s.questions[0].Answers); got != n {
		return fmt.Errorf("got %d answers, want %d", got, n)
	}
	return nil
}

func (s *quizState) correctAnswers(list string) error {
	var got []string
	for _, a := range s.questions[0].Answers {
		if a.IsCorrect {
			got = append(got, a.Text)
		}
	}
	want := strings.Split(list, ",")
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return fmt.Errorf("correct answers = %v, want %v", got, want)
	}
	return nil
}

func (s *quizState) startQuiz() error {
	sess, err := session.New(s.questions, nil)
	if err != nil {
		return err
	}
	s.session = sess
	return nil
}

func (s *quizState) selectAnswer(text string) error {
	for i, a := range s.session.Current().Answers {
		if a.Text == text {
			if !s.session.Choose(i) {
				return fmt.Errorf("selecting %q was ignored", text)
			}
			return nil
		}
	}
	return fmt.Errorf("no option %q", text)
}

func (s *quizState) submit() error {
	if !s.session.Submit() {
		return errors.New("submit was ignored")
	}
	return nil
}

func (s *quizState) scoredAs(verdict string) error {
	if s.session.Phase() != session.PhaseRevealed {
		return fmt.Errorf("phase = %v, want revealed", s.session.Phase())
	}
	if got := s.session.LastCorrect(); got != (verdict == "correct") {
		return fmt.Errorf("scored correct=%v, want %s", got, verdict)
	}
	return nil
}

func (s *quizState) givenEmptyFiles(n int) error {
	for i := range n {
		data, err := workbooktest.Build(workbooktest.ShortSheet(fmt.Sprintf("%d Quiz", i+1), "short"))
		if err != nil {
			return err
		}
		s.files = append(s.files, parser.BytesFile(fmt.Sprintf("report-%d.xlsx", i+1), data))
	}
	return nil
}

func (s *quizState) parseFiles() error {
	s.questions, s.parseErr = parser.New(s.extractor()).Parse(context.Background(), s.files)
	return nil
}

func (s *quizState) noQuestionsFound() error {
	if !errors.Is(s.parseErr, parser.ErrNoQuestions) {
		return fmt.Errorf("err = %v, want ErrNoQuestions", s.parseErr)
	}
	var decodeErr *parser.DecodeError
	if errors.As(s.parseErr, &decodeErr) {
		return errors.New("no-questions reported as a decode error")
	}
	return nil
}

func (s *quizState) finishQuiz() error {
	for s.session.Phase() != session.PhaseFinished {
		if s.session.Phase() == session.PhaseAwaitingSelection {
			s.session.Choose(0)
			s.session.Submit()
		}
		s.session.Advance()
	}
	result, ok := s.session.Result()
	if !ok {
		return errors.New("no result after finishing")
	}
	_, err := session.NewReducer(s.tracker).Reduce(context.Background(), result)
	return err
}

func (s *quizState) weaknessContains(text string) error {
	set, err := s.tracker.Load(context.Background())
	if err != nil {
		return err
	}
	if !set.Contains(text) {
		return fmt.Errorf("weakness set %v lacks %q", set.Items(), text)
	}
	return nil
}

func (s *quizState) givenNewFile(text string, others int) error {
	sheets := []workbooktest.Sheet{}
	for i := range others {
		sheets = append(sheets, workbooktest.ReportSheet(
			fmt.Sprintf("%d Quiz", i+1), fmt.Sprintf("Other question %d", i+1),
			[]string{"A", "B"}, "A"))
	}
	sheets = append(sheets, workbooktest.ReportSheet("99 Quiz", text, []string{"Blue", "Red"}, "Blue"))
	data, err := workbooktest.Build(sheets...)
	if err != nil {
		return err
	}
	s.questions, err = parser.New(s.extractor()).Parse(context.Background(), []parser.File{parser.BytesFile("next.xlsx", data)})
	return err
}

func (s *quizState) composeNext() error {
	set, err := s.tracker.Load(context.Background())
	if err != nil {
		return err
	}
	s.composed = session.Compose(s.questions, set, s.rand)
	return nil
}

func (s *quizState) firstIsWeak(text string) error {
	first := s.composed[0]
	if first.Text != text || !first.IsWeakness {
		return fmt.Errorf("first question = %q (weak=%v)", first.Text, first.IsWeakness)
	}
	return nil
}

func (s *quizState) othersNotWeak() error {
	for _, q := range s.composed[1:] {
		if q.IsWeakness {
			return fmt.Errorf("%q unexpectedly weak", q.Text)
		}
	}
	return nil
}
