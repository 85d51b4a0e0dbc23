// ABOUTME: Completion-aware reminder ordering and overdue checks
// ABOUTME: Open reminders come first, each partition ordered by due date
package views

import (
	"slices"
	"time"

	"github.com/harperreed/rolodex/models"
)

// SortReminders returns a stably sorted copy: incomplete before completed,
// then due date ascending.
func SortReminders(reminders []models.Reminder) []models.Reminder {
	return SortRemindersBy(reminders, false)
}

// SortRemindersBy is SortReminders with the due date order inside each
// partition reversed when desc is set. Open reminders still come first.
func SortRemindersBy(reminders []models.Reminder, desc bool) []models.Reminder {
	out := slices.Clone(reminders)
	slices.SortStableFunc(out, func(a, b models.Reminder) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		if desc {
			return b.DueDate.Compare(a.DueDate)
		}
		return a.DueDate.Compare(b.DueDate)
	})
	return out
}

// IsOverdue reports whether r is still open and due before now.
func IsOverdue(r models.Reminder, now time.Time) bool {
	return !r.Completed && r.DueDate.Before(now)
}
