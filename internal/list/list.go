// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package list provides an append-only, insertion ordered collection.
package list

import "iter"

// List is an append-only collection which yields its elements
// in insertion order. A zero List is empty and ready to use.
type List[T any] struct {
	items []T
}

// New returns an empty List.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Append inserts v at the end of the List.
func (l *List[T]) Append(v T) {
	l.items = append(l.items, v)
}

// Len returns the number of elements in the List.
func (l *List[T]) Len() int {
	return len(l.items)
}

// All yields every element along with its insertion index.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Free calls release, if non-nil, for every element in insertion
// order and then empties the List.
func (l *List[T]) Free(release func(T)) {
	if release != nil {
		for _, v := range l.items {
			release(v)
		}
	}
	clear(l.items)
	l.items = nil
}
