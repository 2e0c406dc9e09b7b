package query

import (
	"time"

	"github.com/rlacksdl104/intray/task"
)

// Stats aggregates one snapshot of the collection. The per-enum maps always
// carry every enum value, zero or not, so consumers can render complete
// breakdowns without nil checks.
type Stats struct {
	TotalTasks     int                   `json:"total_tasks"`
	CompletedTasks int                   `json:"completed_tasks"`
	PendingTasks   int                   `json:"pending_tasks"`
	OverdueTasks   int                   `json:"overdue_tasks"`
	ByPriority     map[task.Priority]int `json:"tasks_by_priority"`
	ByCategory     map[task.Category]int `json:"tasks_by_category"`
	ByStatus       map[task.Status]int   `json:"tasks_by_status"`
	// AverageCompletionTime is the mean of the recorded actual hours over
	// completed tasks that have a non-zero value, or 0 if there are none.
	AverageCompletionTime float64 `json:"average_completion_time"`
}

// Statistics computes aggregate counts over the snapshot, with overdue
// judged against the given instant.
//
// Pending counts everything that is not completed, cancelled tasks included.
func Statistics(tasks []task.Task, now time.Time) Stats {
	st := Stats{
		TotalTasks: len(tasks),
		ByPriority: make(map[task.Priority]int, len(task.Priorities)),
		ByCategory: make(map[task.Category]int, len(task.Categories)),
		ByStatus:   make(map[task.Status]int, len(task.Statuses)),
	}
	for _, p := range task.Priorities {
		st.ByPriority[p] = 0
	}
	for _, c := range task.Categories {
		st.ByCategory[c] = 0
	}
	for _, s := range task.Statuses {
		st.ByStatus[s] = 0
	}

	var hoursSum float64
	var hoursCount int
	for _, t := range tasks {
		st.ByPriority[t.Priority]++
		st.ByCategory[t.Category]++
		st.ByStatus[t.Status]++

		if t.Status == task.StatusCompleted {
			st.CompletedTasks++
			if t.ActualHours != nil && *t.ActualHours != 0 {
				hoursSum += *t.ActualHours
				hoursCount++
			}
		} else {
			st.PendingTasks++
			if t.DueDate != nil && t.DueDate.Before(now) {
				st.OverdueTasks++
			}
		}
	}
	if hoursCount > 0 {
		st.AverageCompletionTime = hoursSum / float64(hoursCount)
	}
	return st
}

// Upcoming returns the tasks due within daysAhead days of now, both bounds
// inclusive, excluding completed tasks, ascending by due date. A daysAhead
// of zero or less means the default window of 7 days.
func Upcoming(tasks []task.Task, now time.Time, daysAhead int) []task.Task {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	horizon := now.AddDate(0, 0, daysAhead)

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == task.StatusCompleted || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(now) || t.DueDate.After(horizon) {
			continue
		}
		out = append(out, t)
	}
	Sort(out, FieldDueDate, Asc)
	return out
}
