package showroom

import (
	"fmt"
	"time"
)

// MeshScreen is the watch face mesh. Models without it show no time.
const MeshScreen = "screen"

// ScreenTime is the text on the watch face: hours and minutes on a 12-hour
// dial, and the seconds beside them.
type ScreenTime struct {
	HoursMinutes string
	Seconds      string
}

// screenTimeAt formats t for the watch face.
func screenTimeAt(t time.Time) ScreenTime {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return ScreenTime{
		HoursMinutes: fmt.Sprintf("%d:%02d", h, t.Minute()),
		Seconds:      fmt.Sprintf(":%02d", t.Second()),
	}
}

// ScreenClock keeps the watch face text current. The text changes at most
// once per wall-clock second however often it steps.
type ScreenClock struct {
	now  func() time.Time
	last time.Time
	text ScreenTime
}

// NewScreenClock creates a clock reading now, or the wall clock when now is
// nil. The text is set immediately.
func NewScreenClock(now func() time.Time) *ScreenClock {
	if now == nil {
		now = time.Now
	}
	c := &ScreenClock{now: now}
	c.Step()
	return c
}

// Step refreshes the text when a new second has started. It never finishes.
func (c *ScreenClock) Step() bool {
	t := c.now().Truncate(time.Second)
	if t.Equal(c.last) {
		return false
	}
	c.last = t
	c.text = screenTimeAt(t)
	return false
}

// Text returns the current watch face text.
func (c *ScreenClock) Text() ScreenTime { return c.text }
