package core

import (
	"sort"
	"time"
)

const (
	dateKeyLayout  = "2006-01-02"
	dueClockLayout = "15:04"
)

// DateKey renders the calendar-date key a task is grouped under.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// GroupTasksByDue groups tasks by the calendar date of their due timestamp.
// Tasks without a due timestamp are left out of the grouping entirely; they
// still appear in the flat task list.
func GroupTasksByDue(tasks []Task) map[string][]Task {
	groups := make(map[string][]Task)
	for _, t := range tasks {
		if t.DueAt == nil {
			continue
		}
		key := DateKey(*t.DueAt)
		groups[key] = append(groups[key], t)
	}
	return groups
}

// GroupDates returns the grouping's distinct dates in ascending order.
func GroupDates(groups map[string][]Task) []string {
	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// SliderIndex picks the initial slider position for a sorted date list:
// today's date when grouped, otherwise the date closest to today, with an
// equidistant pair resolving to the earlier date. Distances are whole
// calendar days, so the result does not drift over the course of the day.
// An empty list yields 0.
func SliderIndex(dates []string, today time.Time) int {
	todayKey := today.Format(dateKeyLayout)
	for i, d := range dates {
		if d == todayKey {
			return i
		}
	}

	// midnight of today's calendar date, the time of day must not weigh in
	y, m, dd := today.Date()
	todayDay := time.Date(y, m, dd, 0, 0, 0, 0, today.Location())

	best := 0
	var bestDiff time.Duration = -1
	for i, d := range dates {
		day, err := time.ParseInLocation(dateKeyLayout, d, today.Location())
		if err != nil {
			continue
		}
		diff := todayDay.Sub(day)
		if diff < 0 {
			diff = -diff
		}
		// strict less keeps the earliest of two equidistant dates
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// CombineDueDateTime builds a due timestamp from separate date ("2006-01-02")
// and clock ("15:04") inputs. Either part missing means no due timestamp.
func CombineDueDateTime(date, clock string) (*time.Time, error) {
	if date == "" || clock == "" {
		return nil, nil
	}
	due, err := time.ParseInLocation(dateKeyLayout+"T"+dueClockLayout, date+"T"+clock, time.Local)
	if err != nil {
		return nil, ErrTaskInvalidArgs
	}
	return &due, nil
}
