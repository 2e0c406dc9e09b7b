package task

import (
	"time"

	"github.com/google/uuid"
)

// Store owns the mutable ordered task collection. It is not safe for
// concurrent use; callers serialize access (the HTTP layer holds a mutex).
type Store struct {
	tasks []Task

	// Collaborators, injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewStore returns an empty store with the default clock and id generator.
func NewStore() *Store {
	return &Store{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Create appends a new task built from req and returns it. Status is always
// todo at creation; CreatedAt and UpdatedAt are set to the same instant.
func (s *Store) Create(req CreateRequest) Task {
	now := s.now()
	t := Task{
		ID:          s.newID(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      StatusTodo,
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
		AssignedTo:  req.AssignedTo,
		Tags:        normalizeTags(req.Tags),
	}
	if req.DueDate != nil {
		due := *req.DueDate
		t.DueDate = &due
	}
	if req.EstimatedHours != nil {
		h := *req.EstimatedHours
		t.EstimatedHours = &h
	}
	s.tasks = append(s.tasks, t)
	return t.clone()
}

// Get returns the task with the given id, if present.
func (s *Store) Get(id string) (Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i].clone(), true
		}
	}
	return Task{}, false
}

// Update merges patch over the stored task with the given id, stamps
// UpdatedAt, and replaces the record at the same position. Returns false and
// leaves the collection unchanged if the id is unknown.
func (s *Store) Update(id string, patch Patch) (Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		merged := patch.apply(s.tasks[i].clone())
		merged.ID = id // immutable
		merged.CreatedAt = s.tasks[i].CreatedAt
		merged.UpdatedAt = s.now()
		s.tasks[i] = merged
		return merged.clone(), true
	}
	return Task{}, false
}

// Delete removes the task with the given id. Returns whether a removal
// occurred.
func (s *Store) Delete(id string) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Reassign sets the task's assignee.
func (s *Store) Reassign(id, assignee string) (Task, bool) {
	return s.Update(id, Patch{AssignedTo: &assignee})
}

// AddTags unions the given tags into the task's tag set.
func (s *Store) AddTags(id string, tags ...string) (Task, bool) {
	existing, ok := s.Get(id)
	if !ok {
		return Task{}, false
	}
	merged := normalizeTags(append(existing.Tags, tags...))
	return s.Update(id, Patch{Tags: &merged})
}

// RemoveTags subtracts the given tags from the task's tag set.
func (s *Store) RemoveTags(id string, tags ...string) (Task, bool) {
	existing, ok := s.Get(id)
	if !ok {
		return Task{}, false
	}
	drop := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		drop[tag] = struct{}{}
	}
	kept := make([]string, 0, len(existing.Tags))
	for _, tag := range existing.Tags {
		if _, ok := drop[tag]; !ok {
			kept = append(kept, tag)
		}
	}
	return s.Update(id, Patch{Tags: &kept})
}

// Complete marks the task completed, recording actual hours if given.
func (s *Store) Complete(id string, actualHours *float64) (Task, bool) {
	done := StatusCompleted
	return s.Update(id, Patch{Status: &done, ActualHours: actualHours})
}

// Snapshot returns a copy of the collection in storage order. Queries operate
// on snapshots so an in-flight query never observes a later store mutation.
func (s *Store) Snapshot() []Task {
	out := make([]Task, len(s.tasks))
	for i := range s.tasks {
		out[i] = s.tasks[i].clone()
	}
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int { return len(s.tasks) }
