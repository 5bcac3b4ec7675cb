package clock

import "time"

// Clock abstracts the current time so "today" can be fixed in tests.
type Clock interface {
	Now() time.Time
}

type wallClock struct {
	loc *time.Location
}

// New returns a Clock reading the wall clock in loc.
// A nil location means UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return wallClock{loc: loc}
}

func (c wallClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed is a Clock that always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
