// Package query implements read-only views over task snapshots: filtering,
// sorting, and aggregate statistics. Nothing in this package mutates a store;
// callers pass in a snapshot and own the result.
package query

import (
	"strings"
	"time"

	"github.com/rlacksdl104/intray/task"
)

// Criteria is a filter configuration. Every field is independently optional
// and the specified ones combine with AND semantics.
type Criteria struct {
	Status     []task.Status
	Priority   []task.Priority
	Category   []task.Category
	AssignedTo string
	DueFrom    *time.Time
	DueTo      *time.Time
	Search     string
	Tags       []string
}

// Filter returns the tasks matching every specified criterion, in input
// order. The input slice is not modified.
func Filter(tasks []task.Task, c Criteria) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, c) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t task.Task, c Criteria) bool {
	if len(c.Status) > 0 && !containsStatus(c.Status, t.Status) {
		return false
	}
	if len(c.Priority) > 0 && !containsPriority(c.Priority, t.Priority) {
		return false
	}
	if len(c.Category) > 0 && !containsCategory(c.Category, t.Category) {
		return false
	}
	if c.AssignedTo != "" && t.AssignedTo != c.AssignedTo {
		return false
	}
	// Date-range criteria only constrain tasks that have a due date; a task
	// without one passes the range.
	if t.DueDate != nil {
		if c.DueFrom != nil && t.DueDate.Before(*c.DueFrom) {
			return false
		}
		if c.DueTo != nil && t.DueDate.After(*c.DueTo) {
			return false
		}
	}
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if len(c.Tags) > 0 && !intersects(t.Tags, c.Tags) {
		return false
	}
	return true
}

// intersects reports whether the two tag sets share at least one tag.
func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func containsStatus(set []task.Status, v task.Status) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsPriority(set []task.Priority, v task.Priority) bool {
	for _, p := range set {
		if p == v {
			return true
		}
	}
	return false
}

func containsCategory(set []task.Category, v task.Category) bool {
	for _, c := range set {
		if c == v {
			return true
		}
	}
	return false
}

// ByAssignee returns the tasks assigned to exactly the given assignee.
func ByAssignee(tasks []task.Task, assignee string) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo == assignee {
			out = append(out, t)
		}
	}
	return out
}
