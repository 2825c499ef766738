// Package tracker keeps ordered, inheritance-aware declaration tables.
//
// A Scheme records named declarations in the order they were made. A child scheme starts as a copy of its parent
// and appends its own entries; re-declaring an inherited name replaces the entry but keeps its original position.
package tracker

import "iter"

// Scheme is an ordered table of named declarations.
type Scheme[T any] struct {
	names []string
	items map[string]T
}

// New creates a scheme inheriting every entry of parent, in parent order. parent may be nil.
func New[T any](parent *Scheme[T]) *Scheme[T] {
	s := &Scheme[T]{
		items: make(map[string]T),
	}
	if parent == nil {
		return s
	}
	s.names = append(make([]string, 0, len(parent.names)), parent.names...)
	for name, item := range parent.items {
		s.items[name] = item
	}

	return s
}

// Declare appends name to the scheme, or replaces the existing entry in place.
func (s *Scheme[T]) Declare(name string, item T) {
	if _, ok := s.items[name]; !ok {
		s.names = append(s.names, name)
	}
	s.items[name] = item
}

// Get returns the entry declared under name.
func (s *Scheme[T]) Get(name string) (T, bool) {
	item, ok := s.items[name]
	return item, ok
}

// Has reports whether name is declared.
func (s *Scheme[T]) Has(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Names returns the declared names in declaration order.
func (s *Scheme[T]) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Scheme[T]) Len() int {
	return len(s.names)
}

// All iterates over the entries in declaration order.
func (s *Scheme[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, name := range s.names {
			if !yield(name, s.items[name]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the scheme.
func (s *Scheme[T]) Clone() *Scheme[T] {
	return New(s)
}
