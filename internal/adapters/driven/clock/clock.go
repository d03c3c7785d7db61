// Package clock provides driven.Clock implementations: Real for production
// and Manual, a virtual clock that tests advance explicitly.
package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
)

// Ensure both clocks implement the interface.
var (
	_ driven.Clock = Real{}
	_ driven.Clock = (*Manual)(nil)
)

// Real uses the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f in its own goroutine after d.
func (Real) AfterFunc(d time.Duration, f func()) driven.Timer {
	return time.AfterFunc(d, f)
}

// Manual is a virtual clock. Scheduled functions run synchronously inside
// Advance, in due-time order, once the clock reaches their deadline.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock *Manual
	due   time.Time
	seq   int
	f     func()
	done  bool
}

// NewManual creates a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run when the clock is advanced past d.
func (m *Manual) AfterFunc(d time.Duration, f func()) driven.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{clock: m, due: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled by a running task are honoured if they fall within d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		next.done = true
		m.now = next.due
		m.removeLocked(next)
		m.mu.Unlock()

		// Run without the lock so the task may schedule or stop timers.
		next.f()
	}
}

// Pending returns the number of scheduled tasks that have not run or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manual) nextDueLocked(target time.Time) *manualTimer {
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})
	if len(m.timers) == 0 || m.timers[0].due.After(target) {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) removeLocked(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Stop cancels the task. It returns false if the task already ran or was stopped.
func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	m.removeLocked(t)
	return true
}
