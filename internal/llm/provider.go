// Package llm sends single-turn prompts to hosted language models and
// returns schema-checked JSON. The explainer is its only caller.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a response for one prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider requests structured output and Content is checked
	// against the schema before it is returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request is a single user prompt with an optional system prompt.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// StopReason is the normalized reason generation ended.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is what a provider produced for one Request.
type Response struct {
	// Content is the raw model text. With a schema it is a JSON document
	// that passed validation.
	Content json.RawMessage
	Usage   Usage
	Model   string
	Stop    StopReason
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// finish applies the schema checks every adapter shares.
func finish(req Request, content json.RawMessage, usage Usage, model string, stop StopReason) (*Response, error) {
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &Error{Kind: KindTruncated, Content: content}
		}
		if err := req.Schema.Validate(content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: content, Usage: usage, Model: model, Stop: stop}, nil
}
