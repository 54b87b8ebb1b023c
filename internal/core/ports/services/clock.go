package services

import "time"

// Clock abstracts wall-clock time so billing windows can be evaluated at a
// controlled "now" in tests. Production code injects RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
