package booking

import "time"

// Window is the position of a booking interval relative to an instant.
type Window int

const (
	WindowPast Window = iota
	WindowCurrent
	WindowFuture
)

func (w Window) String() string {
	switch w {
	case WindowPast:
		return "PAST"
	case WindowCurrent:
		return "CURRENT"
	case WindowFuture:
		return "FUTURE"
	default:
		return "UNKNOWN"
	}
}

// Classify places [start, end] against now. Both bounds count as current.
// For start < end exactly one window applies.
func Classify(start, end, now time.Time) Window {
	switch {
	case end.Before(now):
		return WindowPast
	case start.After(now):
		return WindowFuture
	default:
		return WindowCurrent
	}
}
