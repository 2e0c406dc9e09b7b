package task

import (
	"encoding/json"
	"fmt"
)

// ExportTasks renders tasks as an indented JSON array, the interchange form
// accepted by ImportTasks.
func ExportTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// ImportTasks parses the interchange form. The top-level value must be an
// array and every element must carry a non-empty id, title, priority, status,
// and category; otherwise ok is false. Time fields are rehydrated by the JSON
// decoder from their RFC 3339 form.
func ImportTasks(data []byte) (tasks []Task, ok bool) {
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false
	}
	if tasks == nil { // top-level null is not a sequence
		return nil, false
	}
	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" || t.Title == "" || t.Priority == "" || t.Status == "" || t.Category == "" {
			return nil, false
		}
		t.Tags = normalizeTags(t.Tags)
	}
	return tasks, true
}

// Export renders the store's full collection in interchange form.
func (s *Store) Export() ([]byte, error) {
	return ExportTasks(s.tasks)
}

// Import replaces the store's entire collection with the parsed one. A failed
// import is a no-op on existing state and returns false.
func (s *Store) Import(data []byte) bool {
	tasks, ok := ImportTasks(data)
	if !ok {
		return false
	}
	s.tasks = tasks
	return true
}
