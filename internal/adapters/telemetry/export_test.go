package telemetry

import "time"

// WithClock replaces the clock used to measure step durations.
func (l *Linear) WithClock(now func() time.Time) *Linear {
	l.now = now
	return l
}
