package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/abhisek/quizreplay/internal/store"
)

// WithLogging wraps p so every request is appended to repo as an LLM
// request event. name is the provider name stored with each event.
func WithLogging(p Provider, name string, repo store.EventRepo) Provider {
	return &recorder{Provider: p, name: name, repo: repo, now: time.Now}
}

type recorder struct {
	Provider
	name string
	repo store.EventRepo
	now  func() time.Time
}

func (r *recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.Provider.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    r.name,
		Model:       r.ModelID(),
		Purpose:     LabelFrom(ctx).String(),
		LatencyMs:   r.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: requestBody(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		var e *Error
		if errors.As(err, &e) && len(e.Content) > 0 {
			ev.ResponseBody = string(e.Content)
		}
	}

	if lerr := r.repo.AppendLLMRequest(ctx, ev); lerr != nil {
		log.Printf("llm: record request: %v", lerr)
	}
	return resp, err
}

// requestBody renders req as indented JSON for `quizreplay llm view`.
func requestBody(req Request) string {
	body := struct {
		System    string         `json:"system,omitempty"`
		Prompt    string         `json:"prompt"`
		Schema    map[string]any `json:"schema,omitempty"`
		MaxTokens int            `json:"max_tokens,omitempty"`
	}{
		System:    req.System,
		Prompt:    req.Prompt,
		MaxTokens: req.MaxTokens,
	}
	if req.Schema != nil {
		body.Schema = req.Schema.Definition
	}
	b, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return req.Prompt
	}
	return string(b)
}
