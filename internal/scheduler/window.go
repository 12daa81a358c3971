package scheduler

import (
	"fmt"
	"time"
)

const clockLayout = "15:04:05"

// Window is a daily wall-clock interval, inclusive at both ends, compared
// at second resolution.
type Window struct {
	start int
	end   int
}

// DefaultWindow is the evening reminder window, 19:00:00-23:59:59.
var DefaultWindow = Window{start: 19 * 3600, end: 23*3600 + 59*60 + 59}

// ParseWindow parses two HH:MM:SS clock times.
func ParseWindow(start, end string) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window end: %w", err)
	}
	if e < s {
		return Window{}, fmt.Errorf("window end %s is before start %s", end, start)
	}
	return Window{start: s, end: e}, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return 0, err
	}
	return secondOfDay(t), nil
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// Contains reports whether t's wall-clock time lies inside the window.
func (w Window) Contains(t time.Time) bool {
	s := secondOfDay(t)
	return s >= w.start && s <= w.end
}

func (w Window) String() string {
	format := func(s int) string {
		return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
	}
	return format(w.start) + "-" + format(w.end)
}
