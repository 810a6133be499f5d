// Package explain asks an LLM why the correct options of a quiz question
// are correct.
package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/quizreplay/internal/llm"
	"github.com/abhisek/quizreplay/internal/quiz"
)

// Purpose labels explainer requests in the LLM event log.
const Purpose = "explain"

// ErrEmptyExplanation is returned when the provider answers with blank text.
var ErrEmptyExplanation = errors.New("explain: empty explanation")

// Config holds generation settings for the explainer.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the quiz screen.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.2,
	}
}

// Schema is the structured output the explainer requests.
var Schema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Short explanation of the correct answer to a quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two to four sentences explaining why the correct options are correct",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

// Explainer generates explanations through an llm.Provider.
type Explainer struct {
	provider llm.Provider
	cfg      Config
}

// New returns an Explainer. A nil provider yields a nil Explainer, which
// callers treat as "explanations unavailable".
func New(provider llm.Provider, cfg Config) *Explainer {
	if provider == nil {
		return nil
	}
	return &Explainer{provider: provider, cfg: cfg}
}

// Available reports whether e can serve requests.
func (e *Explainer) Available() bool {
	return e != nil && e.provider != nil
}

type output struct {
	Explanation string `json:"explanation"`
}

// Explain returns an explanation for q given the learner's selection.
// selected holds indexes into q.Answers.
func (e *Explainer) Explain(ctx context.Context, q quiz.Question, selected []int) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("explain: no LLM provider configured")
	}
	ctx = llm.WithLabel(ctx, llm.Label{Purpose: Purpose, Subject: q.ID})

	msg, err := buildMessage(q, selected)
	if err != nil {
		return "", fmt.Errorf("build explain prompt: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      msg,
		Schema:      Schema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM explanation failed: %w", err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse explanation response: %w", err)
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return "", ErrEmptyExplanation
	}
	return text, nil
}

const systemPrompt = `You are a patient tutor reviewing a multiple-choice quiz question with a learner.

Instructions:
- Explain why the correct options are correct.
- If the learner picked a wrong option, say briefly why it is wrong.
- Use plain language and stay under four sentences.
- Do not restate the question.`

type promptOption struct {
	Letter   string
	Text     string
	Correct  bool
	Selected bool
}

type promptData struct {
	Question string
	Options  []promptOption
}

var userTemplate = template.Must(template.New("explain").Parse(`Question: {{.Question}}

Options:
{{range .Options}}{{.Letter}}) {{.Text}}{{if .Correct}} [correct]{{end}}{{if .Selected}} [learner picked]{{end}}
{{end}}`))

func buildMessage(q quiz.Question, selected []int) (string, error) {
	picked := make(map[int]bool, len(selected))
	for _, i := range selected {
		picked[i] = true
	}
	data := promptData{Question: q.Text}
	for i, a := range q.Answers {
		data.Options = append(data.Options, promptOption{
			Letter:   string(rune('A' + i)),
			Text:     a.Text,
			Correct:  a.IsCorrect,
			Selected: picked[i],
		})
	}
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
