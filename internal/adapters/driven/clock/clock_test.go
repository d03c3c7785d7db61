package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestManual_RunsTasksWhenDue(t *testing.T) {
	c := NewManual(epoch)
	var ran []string

	c.AfterFunc(2*time.Second, func() { ran = append(ran, "b") })
	c.AfterFunc(1*time.Second, func() { ran = append(ran, "a") })

	c.Advance(500 * time.Millisecond)
	assert.Empty(t, ran)
	assert.Equal(t, 2, c.Pending())

	c.Advance(time.Second)
	assert.Equal(t, []string{"a"}, ran)

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, epoch.Add(2500*time.Millisecond), c.Now())
	assert.Zero(t, c.Pending())
}

func TestManual_SameDeadlineRunsInScheduleOrder(t *testing.T) {
	c := NewManual(epoch)
	var ran []int

	for i := 0; i < 3; i++ {
		n := i
		c.AfterFunc(time.Second, func() { ran = append(ran, n) })
	}
	c.Advance(time.Second)

	assert.Equal(t, []int{0, 1, 2}, ran)
}

func TestManual_Stop(t *testing.T) {
	c := NewManual(epoch)
	var count atomic.Int32

	timer := c.AfterFunc(time.Second, func() { count.Add(1) })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.Zero(t, count.Load())
}

func TestManual_StopAfterRun(t *testing.T) {
	c := NewManual(epoch)

	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)

	assert.False(t, timer.Stop())
}

func TestManual_TaskSchedulesTask(t *testing.T) {
	c := NewManual(epoch)
	var ran []string

	c.AfterFunc(time.Second, func() {
		ran = append(ran, "first")
		c.AfterFunc(time.Second, func() { ran = append(ran, "second") })
	})

	c.Advance(3 * time.Second)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestReal_Stop(t *testing.T) {
	var fired atomic.Bool
	timer := Real{}.AfterFunc(time.Hour, func() { fired.Store(true) })

	assert.True(t, timer.Stop())
	assert.False(t, fired.Load())
}
