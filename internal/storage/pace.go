package storage

import "worklog/internal/dates"

// Pace tells how much work per day would meet a goal by its deadline.
type Pace struct {
	// Workdays is the number of working days left through the deadline,
	// today included.
	Workdays int
	// Recommended is the hours per workday needed to close the gap,
	// rounded to one decimal. Only meaningful when HasRecommendation is
	// set; with no workdays left there is nothing sensible to suggest.
	Recommended       float64
	HasRecommendation bool
}

// RecommendedPace spreads the remaining hours over the working days left
// until the deadline. A blank or unparsable deadline falls back to the last
// day of the current month. A workdays count of 0 or 7 means every day
// counts; anything in between assumes that many working days per week,
// without pinning them to particular weekdays.
func RecommendedPace(cal dates.Calendar, today, deadline string, workdaysCount int, remaining float64) Pace {
	if deadline == "" || cal.Validate(deadline) != nil {
		deadline = cal.LastOfMonth()
	}

	days, err := cal.DaysBetween(today, deadline)
	if err != nil || days < 0 {
		return Pace{}
	}

	span := days + 1
	workdays := span
	if workdaysCount > 0 && workdaysCount < 7 {
		workdays = span/7*workdaysCount + min(span%7, workdaysCount)
	}

	p := Pace{Workdays: workdays}
	if workdays > 0 {
		p.Recommended = round1(remaining / float64(workdays))
		p.HasRecommendation = true
	}
	return p
}
