package market

import "time"

// Clock reports whether the market is currently open for trading. The
// trading core treats it as an external predicate; it never derives
// market hours itself.
type Clock interface {
	IsOpen() bool
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() bool

func (f ClockFunc) IsOpen() bool { return f() }

// AlwaysOpen is a Clock that never closes. Replay sessions use it so
// practice trades are never rejected on market hours.
var AlwaysOpen Clock = ClockFunc(func() bool { return true })

// US/Eastern observes daylight saving, so the UTC offset moves between
// -5 and -4 over the year. A fixed offset would shift the trading
// window by an hour all summer.
var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// No zone database on the host. EST keeps winter correct.
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// NYSEClock approximates NYSE regular trading hours: 9:30-16:00 ET,
// Monday through Friday. Holidays are not modeled.
type NYSEClock struct {
	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time
}

func (c NYSEClock) IsOpen() bool {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now().In(eastern)

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if t.Hour() < 9 || (t.Hour() == 9 && t.Minute() < 30) {
		return false
	}
	return t.Hour() < 16
}
