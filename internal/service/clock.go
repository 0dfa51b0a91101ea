package service

import "time"

// Clock abstracts the current time so booking transitions and sweeps are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewClock returns the wall clock in UTC.
func NewClock() Clock { return realClock{} }
