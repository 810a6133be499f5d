package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizreplay/internal/llm"
	"github.com/abhisek/quizreplay/internal/quiz"
)

func skyQuestion() quiz.Question {
	return quiz.Question{
		ID:   "1 Quiz",
		Text: "What color is the sky?",
		Answers: []quiz.Answer{
			{Text: "Red"},
			{Text: "Blue", IsCorrect: true},
			{Text: "Green"},
		},
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"  Air scatters blue light most. "}`),
	})
	e := New(mock, DefaultConfig())

	got, err := e.Explain(context.Background(), skyQuestion(), []int{0})
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if got != "Air scatters blue light most." {
		t.Errorf("explanation = %q", got)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != Schema {
		t.Error("request does not carry the explanation schema")
	}
	msg := req.Prompt
	for _, want := range []string{
		"Question: What color is the sky?",
		"A) Red [learner picked]",
		"B) Blue [correct]",
		"C) Green\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestExplain_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		want error
	}{
		{"provider error", llm.MockResponse{Err: llm.ErrUnavailable}, llm.ErrUnavailable},
		{"blank explanation", llm.MockResponse{Content: json.RawMessage(`{"explanation":"   "}`)}, ErrEmptyExplanation},
		{"not json", llm.MockResponse{Content: json.RawMessage(`nope`)}, llm.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(llm.NewMockProvider(tt.resp), DefaultConfig())
			_, err := e.Explain(context.Background(), skyQuestion(), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExplain_Unavailable(t *testing.T) {
	e := New(nil, DefaultConfig())
	if e.Available() {
		t.Fatal("nil provider should be unavailable")
	}
	if _, err := e.Explain(context.Background(), skyQuestion(), nil); err == nil {
		t.Fatal("expected error without provider")
	}
}

func TestExplain_Label(t *testing.T) {
	var label llm.Label
	p := labelProvider{fn: func(ctx context.Context) { label = llm.LabelFrom(ctx) }}
	e := New(p, DefaultConfig())
	if _, err := e.Explain(context.Background(), skyQuestion(), []int{1}); err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	want := llm.Label{Purpose: Purpose, Subject: "1 Quiz"}
	if label != want {
		t.Errorf("label = %+v, want %+v", label, want)
	}
}

type labelProvider struct {
	fn func(context.Context)
}

func (p labelProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.fn(ctx)
	return &llm.Response{Content: json.RawMessage(`{"explanation":"ok"}`)}, nil
}

func (p labelProvider) ModelID() string { return "label" }
