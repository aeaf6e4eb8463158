package lifecycle

import (
	"errors"
	"fmt"
)

type release struct {
	name string
	fn   func() error
}

// scope is a cleanup stack: every acquired resource pushes its release, and
// close runs them newest first. Each release runs even when an earlier one
// fails or panics.
type scope struct {
	stack []release
}

func (s *scope) push(name string, fn func() error) {
	s.stack = append(s.stack, release{name, fn})
}

func (s *scope) len() int {
	return len(s.stack)
}

func (s *scope) close() error {
	var errs []error
	for i := len(s.stack) - 1; i >= 0; i-- {
		r := s.stack[i]
		if err := r.run(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", r.name, err))
		}
	}
	s.stack = nil
	return errors.Join(errs...)
}

func (r release) run() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.fn()
}
