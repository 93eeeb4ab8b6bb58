package booking

import "time"

// Clock supplies the current time to transition guards. Injected so the
// cancellation window and completion eligibility are testable without
// wall-clock sleeps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// RealClock returns the wall-clock implementation used in production.
func RealClock() Clock { return realClock{} }
