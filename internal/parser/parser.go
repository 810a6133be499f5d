// Package parser decodes a batch of report files and collects their questions.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizreplay/internal/extract"
	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/workbook"
)

// File is one input of a batch.
type File struct {
	// Name is shown in errors; usually the base name of the path.
	Name string

	// Open returns the raw xlsx bytes.
	Open func() (io.ReadCloser, error)
}

// PathFile returns a File that reads from disk.
func PathFile(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesFile returns a File backed by an in-memory buffer.
func BytesFile(name string, data []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Parser decodes files concurrently and extracts questions.
type Parser struct {
	extractor *extract.Extractor
}

// New creates a Parser that uses e for sheet extraction.
func New(e *extract.Extractor) *Parser {
	return &Parser{extractor: e}
}

// Parse decodes every file concurrently, then extracts questions in file
// order and sheet order. The first decode failure cancels the batch and is
// returned as a *DecodeError. An empty result returns ErrNoQuestions.
func (p *Parser) Parse(ctx context.Context, files []File) ([]quiz.Question, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	books := make([]*workbook.Workbook, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb, err := decodeFile(f)
			if err != nil {
				return &DecodeError{File: f.Name, Err: err}
			}
			books[i] = wb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Extraction shuffles, so it stays on the calling goroutine.
	var questions []quiz.Question
	for _, wb := range books {
		questions = append(questions, p.extractor.Workbook(wb)...)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func decodeFile(f File) (*workbook.Workbook, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()
	return workbook.Decode(rc)
}
