// Package util holds small generic containers shared across goldrun's
// internal packages.
package util

import (
	"sort"
)

// KeySet is a set backed by a map, used where membership testing over a
// comparable type is needed (group names, symbol indices) without the
// overhead of a full ordered container.
type KeySet[E comparable] map[E]bool

// NewKeySet returns an empty KeySet, optionally seeded from existing maps.
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

func (s KeySet[E]) Add(value E) {
	s[value] = true
}

func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

func (s KeySet[E]) Len() int {
	return len(s)
}

func (s KeySet[E]) Copy() KeySet[E] {
	newS := NewKeySet[E]()
	for k := range s {
		newS[k] = true
	}
	return newS
}

// Elements returns the set's members. No particular order is guaranteed.
func (s KeySet[E]) Elements() []E {
	if s == nil {
		return nil
	}
	sl := make([]E, 0, len(s))
	for item := range s {
		sl = append(sl, item)
	}
	return sl
}

// KeySetOf builds a KeySet from a slice.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	if sl == nil {
		return nil
	}
	s := NewKeySet[E]()
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

// SortedStrings returns a sorted copy of a KeySet[string]'s elements, for
// deterministic output in error messages and table dumps.
func SortedStrings(s KeySet[string]) []string {
	els := s.Elements()
	sort.Strings(els)
	return els
}
