// Package clock provides an injectable time source so "today" is
// deterministic in tests and timezone-correct in production.
package clock

import "time"

// Clock yields the current time in the deployment's timezone.
type Clock interface {
	Now() time.Time
}

// System is the real clock, pinned to a location.
type System struct {
	Loc *time.Location
}

// NewSystem builds a system clock for the named IANA timezone, falling
// back to UTC when the name does not resolve.
func NewSystem(timezone string) System {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return System{Loc: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.Loc)
}

// Today truncates the clock's current time to midnight in its location.
func Today(c Clock) time.Time {
	now := c.Now()
	return Midnight(now)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Fixed is a clock frozen at a single instant, for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
