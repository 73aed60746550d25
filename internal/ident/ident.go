// Package ident generates identifiers for new KPIs and entries.
package ident

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique ids for new rows.
type Generator interface {
	NewID() string
}

// UUIDv7 generates time-ordered UUID v7 strings: a millisecond timestamp
// prefix followed by random bits. No counter is persisted.
type UUIDv7 struct{}

// NewID returns a new UUID v7, falling back to UUID v4 if v7 generation fails.
func (UUIDv7) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Sequence yields prefix-1, prefix-2, ... It is meant for tests that need
// predictable ids.
type Sequence struct {
	Prefix string
	n      int
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}
