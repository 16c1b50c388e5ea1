package idgen

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock supplies the current wall-clock time in whole milliseconds since
// the Unix epoch.
type Clock interface {
	Millis() int64
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() int64

func (f ClockFunc) Millis() int64 {
	return f()
}

type clockworkClock struct {
	clock clockwork.Clock
}

func (c clockworkClock) Millis() int64 {
	return c.clock.Now().UnixNano() / int64(time.Millisecond)
}

// FromClockwork wraps a clockwork clock. Tests use it with a fake clock in
// order to freeze time or move it forward.
func FromClockwork(clock clockwork.Clock) Clock {
	return clockworkClock{clock: clock}
}

// SystemClock returns a Clock backed by the system time.
func SystemClock() Clock {
	return FromClockwork(clockwork.NewRealClock())
}
