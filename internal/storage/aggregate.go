package storage

import "math"

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round1(x float64) float64 { return math.Round(x*10) / 10 }

// TimeLogHours sums a project's timed entries without rounding.
func TimeLogHours(p *Project) float64 {
	var sum float64
	for _, tl := range p.TimeLogs {
		sum += tl.Duration
	}
	return sum
}

// LegacyHours sums a project's plain log entries without rounding.
func LegacyHours(p *Project) float64 {
	var sum float64
	for _, e := range p.Log {
		sum += e.Hours
	}
	return sum
}

// Totals returns timed hours per project plus the grand total. Each project
// figure is rounded to two decimals before the grand total adds them up, so
// the displayed numbers always agree with their sum.
func Totals(doc *Document) (map[string]float64, float64) {
	totals := make(map[string]float64, len(doc.Projects))
	var grand float64
	for name, p := range doc.Projects {
		t := round2(TimeLogHours(p))
		totals[name] = t
		grand += t
	}
	return totals, round2(grand)
}

// GroupTotals sums the rounded project totals by resolved group. Groups
// without any projects are absent from the result.
func GroupTotals(doc *Document) map[string]float64 {
	totals := make(map[string]float64)
	for _, p := range doc.Projects {
		totals[doc.ResolvedGroup(p)] += round2(TimeLogHours(p))
	}
	for g, t := range totals {
		totals[g] = round2(t)
	}
	return totals
}

// Progress describes where a project stands against its goal. Percent is
// not capped at 100; overshooting a goal reads as more than full.
type Progress struct {
	Accumulated float64
	Goal        float64
	Remaining   float64
	Percent     float64
}

// GoalProgress measures a project against its goal. Hours from timed
// entries and plain log entries both count toward the goal.
func GoalProgress(p *Project) Progress {
	acc := LegacyHours(p) + TimeLogHours(p)
	prog := Progress{
		Accumulated: round2(acc),
		Goal:        p.Goal,
	}
	if p.Goal <= 0 {
		return prog
	}
	prog.Remaining = round2(math.Max(p.Goal-acc, 0))
	prog.Percent = round1(100 * acc / p.Goal)
	return prog
}
