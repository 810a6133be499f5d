// Package extract turns decoded report sheets into quiz questions.
//
// Sheets that do not look like a closed question are skipped without error:
// wrong name, too few rows, missing prompt, missing marker rows, or no
// option marked correct.
package extract

import (
	"strings"

	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/workbook"
)

// Extractor pulls questions out of sheets using a fixed Layout.
type Extractor struct {
	layout Layout
	rand   quiz.Rand
}

// New returns an Extractor for layout. Options of accepted questions are
// shuffled with r.
func New(layout Layout, r quiz.Rand) *Extractor {
	return &Extractor{layout: layout, rand: r}
}

// Workbook extracts questions from every sheet of wb, in sheet order.
func (e *Extractor) Workbook(wb *workbook.Workbook) []quiz.Question {
	var out []quiz.Question
	for _, s := range wb.Sheets {
		if q, ok := e.Sheet(s); ok {
			out = append(out, q)
		}
	}
	return out
}

// Sheet extracts a single question. ok is false when the sheet is skipped.
func (e *Extractor) Sheet(s workbook.Sheet) (quiz.Question, bool) {
	l := e.layout
	if !e.isQuestionSheet(s.Name) {
		return quiz.Question{}, false
	}
	if len(s.Rows) < l.MinRows {
		return quiz.Question{}, false
	}
	prompt, ok := s.Cell(l.PromptRow, l.PromptCol)
	if !ok {
		return quiz.Question{}, false
	}

	optRow := findMarker(s, l.OptionsMarker)
	flagRow := findMarker(s, l.FlagsMarker)
	if optRow < 0 || flagRow < 0 {
		return quiz.Question{}, false
	}

	var answers []quiz.Answer
	hasCorrect := false
	for _, col := range l.AnswerCols {
		text, ok := s.Cell(optRow, col)
		if !ok {
			continue
		}
		flag, _ := s.Cell(flagRow, col+l.FlagOffset)
		correct := flag == l.CorrectMark
		hasCorrect = hasCorrect || correct
		answers = append(answers, quiz.Answer{Text: text, IsCorrect: correct})
	}
	if len(answers) == 0 || !hasCorrect {
		return quiz.Question{}, false
	}

	return quiz.Question{
		ID:      s.Name,
		Text:    prompt,
		Answers: quiz.Shuffle(answers, e.rand),
	}, true
}

func (e *Extractor) isQuestionSheet(name string) bool {
	for _, tok := range e.layout.SheetNameTokens {
		if strings.Contains(name, tok) {
			return true
		}
	}
	return false
}

// findMarker returns the index of the first row whose first cell equals
// marker, or -1.
func findMarker(s workbook.Sheet, marker string) int {
	for i, row := range s.Rows {
		if len(row) > 0 && row[0] == marker {
			return i
		}
	}
	return -1
}
