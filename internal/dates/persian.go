package dates

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Persian implements Calendar using the Persian (Jalali) calendar.
// Months 1-6 have 31 days, months 7-11 have 30, and Esfand has 29 or 30
// depending on the leap cycle; the conversion library settles leap years.
type Persian struct {
	loc *time.Location
	now func() time.Time
}

// NewPersian returns a Persian calendar using the local time zone.
func NewPersian() *Persian {
	return &Persian{loc: time.Local, now: time.Now}
}

// SetNowFunc overrides the clock, for deterministic tests.
// Passing nil resets it to time.Now.
func (p *Persian) SetNowFunc(now func() time.Time) {
	if now == nil {
		p.now = time.Now
		return
	}
	p.now = now
}

func (p *Persian) Today() string {
	return p.DateOf(p.now())
}

func (p *Persian) DateOf(t time.Time) string {
	pt := ptime.New(t)
	return formatYMD(pt.Year(), int(pt.Month()), pt.Day())
}

func (p *Persian) DaysBetween(from, to string) (int, error) {
	a, err := p.noonOf(from)
	if err != nil {
		return 0, err
	}
	b, err := p.noonOf(to)
	if err != nil {
		return 0, err
	}
	return dayDiff(a, b), nil
}

func (p *Persian) LastOfMonth() string {
	pt := ptime.New(p.now())
	year, month := pt.Year(), int(pt.Month())
	return formatYMD(year, month, p.monthLength(year, month))
}

func (p *Persian) Validate(date string) error {
	_, err := p.noonOf(date)
	return err
}

// noonOf parses a Persian YYYY-MM-DD string into the Gregorian instant at
// noon of that day.
func (p *Persian) noonOf(date string) (time.Time, error) {
	year, month, day, err := parseYMD(date)
	if err != nil {
		return time.Time{}, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date: %q", date)
	}
	pt := ptime.Date(year, ptime.Month(month), day, 12, 0, 0, 0, p.loc)
	// Out-of-range days normalize into the next month; reject those.
	if pt.Year() != year || int(pt.Month()) != month || pt.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date: %q", date)
	}
	return pt.Time(), nil
}

// monthLength returns the number of days in the given Persian month.
func (p *Persian) monthLength(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	}
	// Esfand: probe day 30 and see whether it survives construction.
	pt := ptime.Date(year, ptime.Esfand, 30, 12, 0, 0, 0, p.loc)
	if pt.Year() == year && pt.Month() == ptime.Esfand && pt.Day() == 30 {
		return 30
	}
	return 29
}
