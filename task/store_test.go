package task

import (
	"fmt"
	"testing"
	"time"
)

// newTestStore returns a store with a deterministic clock and id sequence.
// Each call to the clock advances it by one second.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var nextID int
	s := NewStore()
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	s.newID = func() string {
		nextID++
		return fmt.Sprintf("task-%d", nextID)
	}
	return s
}

func TestStore_Create(t *testing.T) {
	s := newTestStore(t)

	created := s.Create(CreateRequest{
		Title:    "Write report",
		Priority: PriorityHigh,
		Category: CategoryWork,
	})

	if created.ID == "" {
		t.Fatal("Create returned empty ID")
	}
	if created.Status != StatusTodo {
		t.Errorf("Status = %q, want %q", created.Status, StatusTodo)
	}
	if created.Tags == nil || len(created.Tags) != 0 {
		t.Errorf("Tags = %v, want empty non-nil set", created.Tags)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v at creation", created.CreatedAt, created.UpdatedAt)
	}
	if created.ActualHours != nil {
		t.Errorf("ActualHours = %v, want absent", *created.ActualHours)
	}

	got, ok := s.Get(created.ID)
	if !ok {
		t.Fatalf("Get(%s) not found after create", created.ID)
	}
	if got.Title != "Write report" {
		t.Errorf("Title = %q, want %q", got.Title, "Write report")
	}
}

func TestStore_Create_DeduplicatesTags(t *testing.T) {
	s := newTestStore(t)

	created := s.Create(CreateRequest{
		Title:    "t",
		Priority: PriorityLow,
		Category: CategoryPersonal,
		Tags:     []string{"go", "backend", "go"},
	})

	if len(created.Tags) != 2 || created.Tags[0] != "go" || created.Tags[1] != "backend" {
		t.Errorf("Tags = %v, want [go backend]", created.Tags)
	}
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t)
	created := s.Create(CreateRequest{Title: "orig", Priority: PriorityLow, Category: CategoryWork})

	title := "updated"
	status := StatusInProgress
	got, ok := s.Update(created.ID, Patch{Title: &title, Status: &status})
	if !ok {
		t.Fatal("Update returned not found")
	}
	if got.Title != "updated" {
		t.Errorf("Title = %q, want updated", got.Title)
	}
	if got.Status != StatusInProgress {
		t.Errorf("Status = %q, want in_progress", got.Status)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", created.CreatedAt, got.CreatedAt)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, created.UpdatedAt)
	}
	// Untouched fields survive the merge.
	if got.Priority != PriorityLow || got.Category != CategoryWork {
		t.Errorf("unpatched fields changed: priority=%q category=%q", got.Priority, got.Category)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	s := newTestStore(t)
	s.Create(CreateRequest{Title: "x", Priority: PriorityLow, Category: CategoryWork})

	title := "y"
	if _, ok := s.Update("nonexistent", Patch{Title: &title}); ok {
		t.Fatal("Update of unknown id reported found")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after no-op update, want 1", s.Len())
	}
}

func TestStore_Update_PriorSnapshotUnchanged(t *testing.T) {
	s := newTestStore(t)
	created := s.Create(CreateRequest{Title: "before", Priority: PriorityLow, Category: CategoryWork})

	title := "after"
	if _, ok := s.Update(created.ID, Patch{Title: &title}); !ok {
		t.Fatal("Update returned not found")
	}

	// The record handed out at create time must not change underneath the
	// caller.
	if created.Title != "before" {
		t.Errorf("prior snapshot mutated: Title = %q", created.Title)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	a := s.Create(CreateRequest{Title: "a", Priority: PriorityLow, Category: CategoryWork})
	b := s.Create(CreateRequest{Title: "b", Priority: PriorityLow, Category: CategoryWork})

	if !s.Delete(a.ID) {
		t.Fatal("Delete returned false for existing id")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after delete, want 1", s.Len())
	}
	if _, ok := s.Get(a.ID); ok {
		t.Error("deleted task still retrievable")
	}
	if _, ok := s.Get(b.ID); !ok {
		t.Error("wrong task removed")
	}

	if s.Delete("nonexistent") {
		t.Error("Delete returned true for unknown id")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after failed delete, want 1", s.Len())
	}
}

func TestStore_Reassign(t *testing.T) {
	s := newTestStore(t)
	created := s.Create(CreateRequest{Title: "t", Priority: PriorityLow, Category: CategoryWork})

	got, ok := s.Reassign(created.ID, "alex")
	if !ok {
		t.Fatal("Reassign returned not found")
	}
	if got.AssignedTo != "alex" {
		t.Errorf("AssignedTo = %q, want alex", got.AssignedTo)
	}
}

func TestStore_TagRoundTrip(t *testing.T) {
	s := newTestStore(t)
	created := s.Create(CreateRequest{
		Title:    "t",
		Priority: PriorityLow,
		Category: CategoryWork,
		Tags:     []string{"keep"},
	})

	added, ok := s.AddTags(created.ID, "go", "keep", "backend")
	if !ok {
		t.Fatal("AddTags returned not found")
	}
	if len(added.Tags) != 3 {
		t.Errorf("Tags = %v, want 3 unique tags", added.Tags)
	}

	removed, ok := s.RemoveTags(created.ID, "go", "backend")
	if !ok {
		t.Fatal("RemoveTags returned not found")
	}
	if len(removed.Tags) != 1 || removed.Tags[0] != "keep" {
		t.Errorf("Tags = %v after round trip, want [keep]", removed.Tags)
	}
}

func TestStore_Complete(t *testing.T) {
	s := newTestStore(t)
	created := s.Create(CreateRequest{Title: "t", Priority: PriorityLow, Category: CategoryWork})

	hours := 3.5
	got, ok := s.Complete(created.ID, &hours)
	if !ok {
		t.Fatal("Complete returned not found")
	}
	if got.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.ActualHours == nil || *got.ActualHours != 3.5 {
		t.Errorf("ActualHours = %v, want 3.5", got.ActualHours)
	}

	other := s.Create(CreateRequest{Title: "u", Priority: PriorityLow, Category: CategoryWork})
	got, ok = s.Complete(other.ID, nil)
	if !ok {
		t.Fatal("Complete returned not found")
	}
	if got.ActualHours != nil {
		t.Errorf("ActualHours = %v without hours given, want absent", *got.ActualHours)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := newTestStore(t)
	s.Create(CreateRequest{Title: "a", Priority: PriorityLow, Category: CategoryWork})

	snap := s.Snapshot()
	s.Create(CreateRequest{Title: "b", Priority: PriorityLow, Category: CategoryWork})

	if len(snap) != 1 {
		t.Errorf("snapshot grew with the store: len = %d, want 1", len(snap))
	}
	snap[0].Title = "mutated"
	got, _ := s.Get(snap[0].ID)
	if got.Title != "a" {
		t.Errorf("mutating a snapshot leaked into the store: Title = %q", got.Title)
	}
}
