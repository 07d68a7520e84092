// Package streak computes consecutive-day completion streaks. It is
// pure: callers feed it calendar dates, it returns counts, nothing is
// touched.
package streak

import "time"

// DateOf reduces a timestamp to its calendar date in loc, normalized
// to midnight UTC so day arithmetic is exact regardless of DST.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days reduces completion timestamps to their distinct calendar dates
// in loc, ordered newest first. Input order does not matter.
func Days(stamps []time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool, len(stamps))
	var days []time.Time
	for _, s := range stamps {
		day := DateOf(s, loc)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	// Insertion order is not trustworthy; sort newest first.
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j].After(days[j-1]); j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
	return days
}

// Compute returns the current and longest consecutive-day streaks over
// the distinct completion dates, which must be sorted newest first.
//
// The current streak is non-zero only when the most recent completion
// is today or yesterday; it then counts back through gaps of exactly
// one day. The longest streak scans the whole history, and is never
// less than the current streak, nor less than 1 when any completion
// exists.
func Compute(days []time.Time, today time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	yesterday := today.AddDate(0, 0, -1)

	if sameDay(days[0], today) || sameDay(days[0], yesterday) {
		current = 1
		for i := 1; i < len(days); i++ {
			if dayGap(days[i-1], days[i]) != 1 {
				break
			}
			current++
		}
	}

	run := 1
	for i := 0; i < len(days)-1; i++ {
		if dayGap(days[i], days[i+1]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	if longest < current {
		longest = current
	}
	if longest < 1 {
		longest = 1
	}
	return current, longest
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dayGap returns how many calendar days separate newer from older.
func dayGap(newer, older time.Time) int {
	return int(newer.Sub(older) / (24 * time.Hour))
}
