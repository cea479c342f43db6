/*
Package progress implements hierarchical progress reporting.

A Context has an upper bound and a counter. It can be split into a number of
even scopes, each with its own bound and counter, so that independent passes
(or parallel workers inside one pass) never contend on the same counter. A
nil Context is valid anywhere one is accepted and reports nothing.
*/
package progress

import (
	"iter"
	"sync"
	"sync/atomic"
)

// Context receives progress updates.
type Context interface {
	SetMaxValue(n int64)
	Increment()
	SplitIntoEvenScopes(n int) []Context
}

type nop struct{}

func (nop) SetMaxValue(int64) {}

func (nop) Increment() {}

func (nop) SplitIntoEvenScopes(n int) []Context {
	scopes := make([]Context, n)
	for i := range scopes {
		scopes[i] = Nop
	}
	return scopes
}

// Nop is a Context that discards all updates.
var Nop Context = nop{}

// OrNop returns c, or Nop if c is nil.
func OrNop(c Context) Context {
	if c == nil {
		return Nop
	}
	return c
}

// Seq returns a sequence yielding the same elements as seq that increments
// c once for each element yielded.
func Seq[T any](seq iter.Seq[T], c Context) iter.Seq[T] {
	c = OrNop(c)
	return func(yield func(T) bool) {
		for v := range seq {
			c.Increment()
			if !yield(v) {
				return
			}
		}
	}
}

// Scope is a goroutine-safe Context that records its bound and counter and
// any scopes split from it.
type Scope struct {
	value atomic.Int64
	max   atomic.Int64

	mu       sync.Mutex
	children []*Scope
}

// New returns a new root Scope.
func New() *Scope {
	return new(Scope)
}

// SetMaxValue sets the upper bound of s.
func (s *Scope) SetMaxValue(n int64) {
	s.max.Store(n)
}

// Increment advances the counter of s by one.
func (s *Scope) Increment() {
	s.value.Add(1)
}

// SplitIntoEvenScopes creates n child scopes which each account for an equal
// share of the progress of s.
func (s *Scope) SplitIntoEvenScopes(n int) []Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopes := make([]Context, n)
	for i := range scopes {
		child := New()
		s.children = append(s.children, child)
		scopes[i] = child
	}
	return scopes
}

// Value returns the counter of s.
func (s *Scope) Value() int64 {
	return s.value.Load()
}

// Max returns the bound of s.
func (s *Scope) Max() int64 {
	return s.max.Load()
}

// Children returns the scopes split from s, in creation order.
func (s *Scope) Children() []*Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Scope(nil), s.children...)
}

// Fraction returns the completed fraction of s in the range [0, 1]. Once s
// has been split its own counter is ignored and each child contributes an
// equal share.
func (s *Scope) Fraction() float64 {
	if children := s.Children(); len(children) > 0 {
		var sum float64
		for _, c := range children {
			sum += c.Fraction()
		}
		return sum / float64(len(children))
	}

	max := s.Max()
	if max <= 0 {
		return 0
	}
	v := s.Value()
	if v >= max {
		return 1
	}
	return float64(v) / float64(max)
}

// Done reports whether s has reached its bound.
func (s *Scope) Done() bool {
	return s.Fraction() >= 1
}

// Totals returns the sum of the bounds and counters of every leaf scope
// below and including s.
func (s *Scope) Totals() (value, max int64) {
	children := s.Children()
	if len(children) == 0 {
		return s.Value(), s.Max()
	}
	for _, c := range children {
		v, m := c.Totals()
		value += v
		max += m
	}
	return
}
