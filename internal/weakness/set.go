package weakness

import "slices"

// Set is an insertion-ordered set of question texts.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet returns a set holding items in order, without duplicates.
func NewSet(items ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Contains reports whether text is in the set.
func (s *Set) Contains(text string) bool {
	_, ok := s.index[text]
	return ok
}

// Add inserts text. It returns false if text was already present.
func (s *Set) Add(text string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[text]; ok {
		return false
	}
	s.index[text] = struct{}{}
	s.items = append(s.items, text)
	return true
}

// Remove deletes text. It returns false if text was absent.
func (s *Set) Remove(text string) bool {
	if _, ok := s.index[text]; !ok {
		return false
	}
	delete(s.index, text)
	s.items = slices.DeleteFunc(s.items, func(it string) bool { return it == text })
	return true
}

// Items returns the members in insertion order.
func (s *Set) Items() []string {
	return slices.Clone(s.items)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.items)
}
