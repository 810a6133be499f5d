// Package weakness persists the set of questions the learner keeps missing.
package weakness

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultKey is the store key holding the serialized set.
const DefaultKey = "weak_questions"

// KV is the key/value store the tracker persists to.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Tracker loads and saves the weakness set as a JSON array of strings.
type Tracker struct {
	kv  KV
	key string
}

// NewTracker returns a Tracker that stores the set under key.
// An empty key falls back to DefaultKey.
func NewTracker(kv KV, key string) *Tracker {
	if key == "" {
		key = DefaultKey
	}
	return &Tracker{kv: kv, key: key}
}

// Load reads the current set. A missing key yields an empty set.
func (t *Tracker) Load(ctx context.Context) (*Set, error) {
	raw, ok, err := t.kv.Get(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("load weakness set: %w", err)
	}
	if !ok || raw == "" {
		return NewSet(), nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode weakness set: %w", err)
	}
	return NewSet(items...), nil
}

// Save overwrites the stored set.
func (t *Tracker) Save(ctx context.Context, s *Set) error {
	items := s.Items()
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode weakness set: %w", err)
	}
	if err := t.kv.Set(ctx, t.key, string(data)); err != nil {
		return fmt.Errorf("save weakness set: %w", err)
	}
	return nil
}

// Update loads the set, applies fn and saves the result. The last writer wins.
func (t *Tracker) Update(ctx context.Context, fn func(*Set)) (*Set, error) {
	s, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}
	fn(s)
	if err := t.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Clear stores an empty set.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.Save(ctx, NewSet())
}
