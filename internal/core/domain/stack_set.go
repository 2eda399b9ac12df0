package domain

import "sort"

// StackSet is a set of stack IDs. The zero value is not usable; use NewStackSet.
type StackSet struct {
	ids map[string]struct{}
}

func NewStackSet() *StackSet {
	return &StackSet{ids: make(map[string]struct{})}
}

// Add inserts id and reports whether it was not already present.
func (s *StackSet) Add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *StackSet) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

func (s *StackSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s *StackSet) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
