package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rlacksdl104/intray/task"
)

// Field names a sortable task attribute.
type Field string

const (
	FieldID             Field = "id"
	FieldTitle          Field = "title"
	FieldDescription    Field = "description"
	FieldPriority       Field = "priority"
	FieldStatus         Field = "status"
	FieldCategory       Field = "category"
	FieldDueDate        Field = "due_date"
	FieldCreatedAt      Field = "created_at"
	FieldUpdatedAt      Field = "updated_at"
	FieldAssignedTo     Field = "assigned_to"
	FieldEstimatedHours Field = "estimated_hours"
	FieldActualHours    Field = "actual_hours"
)

// Direction orders a sort ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// collator compares strings with locale-aware ordering.
var collator = collate.New(language.English)

// sortKey is the extracted comparison value for one task and field.
type sortKey struct {
	present bool
	isTime  bool
	isNum   bool
	t       time.Time
	n       float64
	s       string
}

// Sort stably sorts tasks in place by the given field. Tasks missing the
// field's value sort last regardless of direction; two missing values compare
// equal. Times compare by instant, numbers arithmetically, strings with
// locale-aware ordering, and anything else by its string form.
func Sort(tasks []task.Task, field Field, dir Direction) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := key(tasks[i], field), key(tasks[j], field)
		switch {
		case !a.present && !b.present:
			return false
		case !a.present:
			return false
		case !b.present:
			return true
		}
		c := compareKeys(a, b)
		if dir == Desc {
			c = -c
		}
		return c < 0
	})
}

func compareKeys(a, b sortKey) int {
	switch {
	case a.isTime && b.isTime:
		return a.t.Compare(b.t)
	case a.isNum && b.isNum:
		switch {
		case a.n < b.n:
			return -1
		case a.n > b.n:
			return 1
		}
		return 0
	default:
		return collator.CompareString(a.s, b.s)
	}
}

func key(t task.Task, field Field) sortKey {
	switch field {
	case FieldID:
		return stringKey(t.ID)
	case FieldTitle:
		return stringKey(t.Title)
	case FieldDescription:
		return stringKey(t.Description)
	case FieldPriority:
		return stringKey(string(t.Priority))
	case FieldStatus:
		return stringKey(string(t.Status))
	case FieldCategory:
		return stringKey(string(t.Category))
	case FieldDueDate:
		return timeKey(t.DueDate)
	case FieldCreatedAt:
		return sortKey{present: true, isTime: true, t: t.CreatedAt}
	case FieldUpdatedAt:
		return sortKey{present: true, isTime: true, t: t.UpdatedAt}
	case FieldAssignedTo:
		return stringKey(t.AssignedTo)
	case FieldEstimatedHours:
		return numberKey(t.EstimatedHours)
	case FieldActualHours:
		return numberKey(t.ActualHours)
	default:
		// Unknown field: fall back to the lexical form of the task id so the
		// sort is still deterministic.
		return sortKey{present: true, s: t.ID}
	}
}

func stringKey(s string) sortKey {
	if s == "" {
		return sortKey{}
	}
	return sortKey{present: true, s: s}
}

func timeKey(t *time.Time) sortKey {
	if t == nil {
		return sortKey{}
	}
	return sortKey{present: true, isTime: true, t: *t}
}

func numberKey(n *float64) sortKey {
	if n == nil {
		return sortKey{}
	}
	return sortKey{present: true, isNum: true, n: *n}
}

// ParseField maps a user-supplied name onto a Field, accepting both the wire
// snake_case form and the camelCase form.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(name) {
	case "id":
		return FieldID, true
	case "title":
		return FieldTitle, true
	case "description":
		return FieldDescription, true
	case "priority":
		return FieldPriority, true
	case "status":
		return FieldStatus, true
	case "category":
		return FieldCategory, true
	case "due_date", "duedate":
		return FieldDueDate, true
	case "created_at", "createdat":
		return FieldCreatedAt, true
	case "updated_at", "updatedat":
		return FieldUpdatedAt, true
	case "assigned_to", "assignedto":
		return FieldAssignedTo, true
	case "estimated_hours", "estimatedhours":
		return FieldEstimatedHours, true
	case "actual_hours", "actualhours":
		return FieldActualHours, true
	}
	return "", false
}
