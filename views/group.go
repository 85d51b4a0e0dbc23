// ABOUTME: Calendar-relative date grouping for interaction timelines
// ABOUTME: Labels follow Today, Yesterday, weekday, month-day, full date precedence
package views

import (
	"time"

	"github.com/harperreed/rolodex/models"
)

const (
	LabelToday     = "Today"
	LabelYesterday = "Yesterday"

	monthDayLayout = "January 2"
	fullDateLayout = "January 2, 2006"
	weekdayLayout  = "Monday"
	daysInWeek     = 7
)

// Group is one labeled bucket of a timeline.
type Group[T any] struct {
	Label string
	Items []T
}

// GroupLabel returns the timeline label for d relative to now. Both are compared
// as calendar days in now's location; weeks start on Sunday.
func GroupLabel(d, now time.Time) string {
	loc := now.Location()
	day := startOfDay(d.In(loc))
	today := startOfDay(now)

	switch {
	case day.Equal(today):
		return LabelToday
	case day.Equal(today.AddDate(0, 0, -1)):
		return LabelYesterday
	}

	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	if !day.Before(weekStart) && day.Before(weekStart.AddDate(0, 0, daysInWeek)) {
		return day.Format(weekdayLayout)
	}
	if day.Year() == today.Year() {
		return day.Format(monthDayLayout)
	}
	return day.Format(fullDateLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GroupByDate buckets items by GroupLabel of date(item). Groups appear in the
// order their label first occurs in items; items keep their input order.
func GroupByDate[T any](items []T, date func(T) time.Time, now time.Time) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)
	for _, item := range items {
		label := GroupLabel(date(item), now)
		i, seen := index[label]
		if !seen {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group[T]{Label: label})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// GroupInteractions groups a timeline by interaction date.
func GroupInteractions(items []models.Interaction, now time.Time) []Group[models.Interaction] {
	return GroupByDate(items, func(i models.Interaction) time.Time { return i.Date }, now)
}
