package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions means every file decoded but no sheet held a usable question.
	ErrNoQuestions = errors.New("no valid questions found")

	// ErrNoFiles means Parse was called with an empty batch.
	ErrNoFiles = errors.New("no files selected")

	// ErrAlreadyAdded means the path is already in the pending selection.
	ErrAlreadyAdded = errors.New("file already added")
)

// DecodeError reports a file that could not be read as a spreadsheet.
// One DecodeError aborts the whole batch.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error processing files: %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidFileTypeError is returned by intake for anything that is not .xlsx.
type InvalidFileTypeError struct {
	Name string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("invalid file type: %s (only .xlsx files are supported)", e.Name)
}

// Message maps parser and intake errors to the text shown to the user.
func Message(err error) string {
	var decodeErr *DecodeError
	var typeErr *InvalidFileTypeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoQuestions):
		return "No valid questions found in the files."
	case errors.Is(err, ErrNoFiles):
		return "Add at least one .xlsx file first."
	case errors.Is(err, ErrAlreadyAdded):
		return "That file is already in the list."
	case errors.As(err, &typeErr):
		return "Please upload only .xlsx files."
	case errors.As(err, &decodeErr):
		return "Error processing files."
	default:
		return "Error processing files."
	}
}
