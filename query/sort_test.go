package query

import (
	"testing"
	"time"

	"github.com/rlacksdl104/intray/task"
)

func TestSort_DueDateAsc(t *testing.T) {
	tasks := []task.Task{
		{ID: "late", DueDate: tp(base.AddDate(0, 0, 9))},
		{ID: "soon", DueDate: tp(base.AddDate(0, 0, 1))},
		{ID: "mid", DueDate: tp(base.AddDate(0, 0, 4))},
	}

	Sort(tasks, FieldDueDate, Asc)
	if !sameIDs(tasks, "soon", "mid", "late") {
		t.Errorf("got %v, want [soon mid late]", ids(tasks))
	}

	Sort(tasks, FieldDueDate, Desc)
	if !sameIDs(tasks, "late", "mid", "soon") {
		t.Errorf("got %v, want [late mid soon]", ids(tasks))
	}
}

func TestSort_AbsentValuesLastBothDirections(t *testing.T) {
	mk := func() []task.Task {
		return []task.Task{
			{ID: "none"},
			{ID: "b", DueDate: tp(base.AddDate(0, 0, 2))},
			{ID: "a", DueDate: tp(base.AddDate(0, 0, 1))},
		}
	}

	asc := mk()
	Sort(asc, FieldDueDate, Asc)
	if !sameIDs(asc, "a", "b", "none") {
		t.Errorf("asc: got %v, want [a b none]", ids(asc))
	}

	desc := mk()
	Sort(desc, FieldDueDate, Desc)
	if !sameIDs(desc, "b", "a", "none") {
		t.Errorf("desc: got %v, want [b a none]", ids(desc))
	}
}

func TestSort_AbsentPriorityLast(t *testing.T) {
	// The zero value of an enum field counts as absent.
	tasks := []task.Task{
		{ID: "blank"},
		{ID: "urgent", Priority: task.PriorityUrgent},
		{ID: "high", Priority: task.PriorityHigh},
	}

	Sort(tasks, FieldPriority, Asc)
	if tasks[len(tasks)-1].ID != "blank" {
		t.Errorf("asc: absent priority not last: %v", ids(tasks))
	}

	Sort(tasks, FieldPriority, Desc)
	if tasks[len(tasks)-1].ID != "blank" {
		t.Errorf("desc: absent priority not last: %v", ids(tasks))
	}
}

func TestSort_TwoAbsentValuesKeepRelativeOrder(t *testing.T) {
	tasks := []task.Task{
		{ID: "x"},
		{ID: "y"},
		{ID: "dated", DueDate: tp(base)},
	}

	Sort(tasks, FieldDueDate, Asc)
	if !sameIDs(tasks, "dated", "x", "y") {
		t.Errorf("got %v, want [dated x y] (stable among absents)", ids(tasks))
	}
}

func TestSort_NumericField(t *testing.T) {
	tasks := []task.Task{
		{ID: "ten", EstimatedHours: fp(10)},
		{ID: "two", EstimatedHours: fp(2)},
		{ID: "nine", EstimatedHours: fp(9)},
	}

	// Arithmetic ordering, not lexical: 2 < 9 < 10.
	Sort(tasks, FieldEstimatedHours, Asc)
	if !sameIDs(tasks, "two", "nine", "ten") {
		t.Errorf("got %v, want [two nine ten]", ids(tasks))
	}
}

func TestSort_StringFieldLocaleAware(t *testing.T) {
	tasks := []task.Task{
		{ID: "b", Title: "banana"},
		{ID: "A", Title: "Apple"},
		{ID: "a", Title: "apple"},
	}

	Sort(tasks, FieldTitle, Asc)
	// Collation orders case-insensitively first, unlike a byte compare
	// which would put "Apple" before both lowercase titles.
	if tasks[2].ID != "b" {
		t.Errorf("got %v, want banana last", ids(tasks))
	}
}

func TestSort_TimestampsByInstant(t *testing.T) {
	early := base
	late := base.Add(48 * time.Hour)
	tasks := []task.Task{
		{ID: "new", CreatedAt: late},
		{ID: "old", CreatedAt: early},
	}

	Sort(tasks, FieldCreatedAt, Asc)
	if !sameIDs(tasks, "old", "new") {
		t.Errorf("got %v, want [old new]", ids(tasks))
	}
}

func TestParseField(t *testing.T) {
	cases := []struct {
		in   string
		want Field
		ok   bool
	}{
		{"due_date", FieldDueDate, true},
		{"dueDate", FieldDueDate, true},
		{"createdAt", FieldCreatedAt, true},
		{"priority", FieldPriority, true},
		{"bogus", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseField(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseField(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
