package progress

import (
	"sort"
	"time"
)

// Report summarizes how far a user is into their challenge.
type Report struct {
	GoalDays      int     `json:"goal_days"`
	DaysCompleted int     `json:"days_completed"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	Percent       float64 `json:"percent"`
}

// Compute builds a progress report from the dates entries were published on.
// Duplicate dates collapse to one day; ordering does not matter. A streak is
// consecutive calendar days, and the current streak survives if the latest
// entry is today or yesterday relative to now.
func Compute(entryDates []time.Time, goalDays int, now time.Time) Report {
	if goalDays <= 0 {
		goalDays = 100
	}

	days := uniqueDays(entryDates)
	r := Report{
		GoalDays:      goalDays,
		DaysCompleted: len(days),
	}
	if len(days) == 0 {
		return r
	}

	r.Percent = clampPercent(float64(len(days)) / float64(goalDays) * 100.0)

	streak := 1
	longest := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			streak++
		} else {
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}
	r.LongestStreak = longest

	// A streak is only current while it can still be extended.
	today := dayOf(now)
	last := days[len(days)-1]
	if last.Equal(today) || today.Sub(last) == 24*time.Hour {
		r.CurrentStreak = streak
	}

	return r
}

func uniqueDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	var days []time.Time
	for _, d := range dates {
		day := dayOf(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clampPercent(p float64) float64 {
	if p > 100.0 {
		return 100.0
	}
	if p < 0.0 {
		return 0.0
	}
	return p
}
