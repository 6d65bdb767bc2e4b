package kernel

import "time"

// Clock supplies the current time. Handlers and jobs take a Clock so tests can
// pin "now"; production uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant. It is safe to copy.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}
