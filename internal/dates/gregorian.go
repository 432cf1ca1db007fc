package dates

import (
	"time"
)

const gregorianLayout = "2006-01-02"

// Gregorian implements Calendar using the proleptic Gregorian calendar.
type Gregorian struct {
	now func() time.Time
}

// NewGregorian returns a Gregorian calendar using the local time zone.
func NewGregorian() *Gregorian {
	return &Gregorian{now: time.Now}
}

// SetNowFunc overrides the clock, for deterministic tests.
// Passing nil resets it to time.Now.
func (g *Gregorian) SetNowFunc(now func() time.Time) {
	if now == nil {
		g.now = time.Now
		return
	}
	g.now = now
}

func (g *Gregorian) Today() string {
	return g.DateOf(g.now())
}

func (g *Gregorian) DateOf(t time.Time) string {
	return t.Format(gregorianLayout)
}

func (g *Gregorian) DaysBetween(from, to string) (int, error) {
	a, err := time.Parse(gregorianLayout, from)
	if err != nil {
		return 0, err
	}
	b, err := time.Parse(gregorianLayout, to)
	if err != nil {
		return 0, err
	}
	return dayDiff(a, b), nil
}

func (g *Gregorian) LastOfMonth() string {
	n := g.now()
	// Day zero of the next month is the last day of this one.
	return time.Date(n.Year(), n.Month()+1, 0, 12, 0, 0, 0, n.Location()).Format(gregorianLayout)
}

func (g *Gregorian) Validate(date string) error {
	_, err := time.Parse(gregorianLayout, date)
	return err
}
