package extract

// Layout describes where a report sheet keeps the question and its options.
// Positions are 0-indexed.
type Layout struct {
	// SheetNameTokens lists substrings that mark a sheet as a question sheet.
	SheetNameTokens []string

	// MinRows is the smallest row count a question sheet can have.
	MinRows int

	// PromptRow and PromptCol locate the question prompt.
	PromptRow int
	PromptCol int

	// OptionsMarker and FlagsMarker are the first-column labels of the
	// answer row and the correctness row.
	OptionsMarker string
	FlagsMarker   string

	// AnswerCols are the option columns of the answer row.
	AnswerCols []int

	// FlagOffset is added to an answer column to find its correctness flag.
	FlagOffset int

	// CorrectMark is the exact flag value of a correct option.
	CorrectMark string
}

// CorrectMark is the check mark glyph used by the report export
// (U+2714 followed by the text variation selector U+FE0E).
const CorrectMark = "✔︎"

// DefaultLayout matches the per-question sheets of a hosted quiz report.
var DefaultLayout = Layout{
	SheetNameTokens: []string{"Quiz", "True or False"},
	MinRows:         10,
	PromptRow:       1,
	PromptCol:       1,
	OptionsMarker:   "Answer options",
	FlagsMarker:     "Is answer correct?",
	AnswerCols:      []int{3, 5, 7, 9},
	FlagOffset:      -1,
	CorrectMark:     CorrectMark,
}
