package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema the model output must satisfy. It is compiled
// on first use; share one *Schema across requests.
type Schema struct {
	// Name is sent to providers that label structured output.
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema. Failures are KindInvalid errors
// carrying raw.
func (s *Schema) Validate(raw json.RawMessage) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: fmt.Errorf("decode output: %w", err)}
	}
	compiled, err := s.compile()
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: err}
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		if s.Definition == nil {
			s.err = errors.New("schema has no definition")
			return
		}
		// The compiler wants decoded JSON values (json.Number, []any), not
		// arbitrary Go literals.
		b, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("encode schema %q: %w", s.Name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
		if err != nil {
			s.err = fmt.Errorf("decode schema %q: %w", s.Name, err)
			return
		}
		url := "schema://" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("add schema %q: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}
