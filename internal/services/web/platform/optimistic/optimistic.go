// Package optimistic applies a tentative value while a slower authoritative
// write runs, then either reconciles with the authoritative result or
// restores the prior value.
package optimistic

import (
	"context"
	"sync"
)

// CommitFunc performs the authoritative write for a tentative value and
// returns the reconciled value.
type CommitFunc[T any] func(ctx context.Context, tentative T) (T, error)

// State holds one optimistically updated value.
type State[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
}

// New returns a state holding initial.
func New[T any](initial T) *State[T] {
	return &State[T]{value: initial}
}

// Value returns the current value, tentative while a switch is pending.
func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Pending reports whether a switch is awaiting its commit.
func (s *State[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Switch applies tentative, runs commit, and keeps the committed value on
// success. When commit fails or panics the prior value is restored before
// Switch returns or the panic continues.
func (s *State[T]) Switch(ctx context.Context, tentative T, commit CommitFunc[T]) (T, error) {
	s.mu.Lock()
	prior := s.value
	s.value = tentative
	s.pending = true
	s.mu.Unlock()

	committed := false
	var result T
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = false
		if committed {
			s.value = result
			return
		}
		s.value = prior
	}()

	if commit == nil {
		committed = true
		result = tentative
		return result, nil
	}
	value, err := commit(ctx, tentative)
	if err != nil {
		return prior, err
	}
	committed = true
	result = value
	return result, nil
}
