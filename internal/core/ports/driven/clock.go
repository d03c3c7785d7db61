package driven

import "time"

// Clock abstracts time so simulated delays can run on a virtual clock in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules f to run once after d and returns a handle to cancel it.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellation handle for a task scheduled on a Clock.
type Timer interface {
	// Stop prevents the task from running.
	// Returns false if the task already ran or was already stopped.
	Stop() bool
}
