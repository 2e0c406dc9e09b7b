// Package api implements the REST handlers over the task store.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rlacksdl104/intray/query"
	"github.com/rlacksdl104/intray/task"
)

// Handlers bundles all REST API handler dependencies. The mutex serializes
// store access: the store itself has no locking and expects one logical
// caller at a time.
type Handlers struct {
	Tasks   *task.Store
	Logger  *slog.Logger
	Version string

	mu sync.Mutex
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tasks", h.listTasks)
	mux.HandleFunc("POST /api/tasks", h.createTask)
	mux.HandleFunc("GET /api/tasks/stats", h.stats)
	mux.HandleFunc("GET /api/tasks/upcoming", h.upcoming)
	mux.HandleFunc("GET /api/tasks/{id}", h.getTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", h.updateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.deleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/complete", h.completeTask)
	mux.HandleFunc("POST /api/tasks/{id}/assign", h.assignTask)
	mux.HandleFunc("POST /api/tasks/{id}/tags", h.tagTask)

	mux.HandleFunc("GET /api/export", h.exportTasks)
	mux.HandleFunc("POST /api/import", h.importTasks)

	mux.HandleFunc("GET /api/status", h.status)
	mux.HandleFunc("GET /api/version", h.version)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Task handlers ---

// criteriaFromQuery maps list query parameters onto filter criteria.
// Membership parameters accept comma-separated values.
func criteriaFromQuery(q url.Values) query.Criteria {
	c := query.Criteria{
		AssignedTo: q.Get("assigned_to"),
		Search:     q.Get("q"),
	}
	for _, s := range splitList(q.Get("status")) {
		c.Status = append(c.Status, task.Status(s))
	}
	for _, p := range splitList(q.Get("priority")) {
		c.Priority = append(c.Priority, task.Priority(p))
	}
	for _, cat := range splitList(q.Get("category")) {
		c.Category = append(c.Category, task.Category(cat))
	}
	c.Tags = splitList(q.Get("tags"))
	if v := q.Get("due_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			c.DueFrom = &t
		}
	}
	if v := q.Get("due_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			c.DueTo = &t
		}
	}
	return c
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.mu.Lock()
	snapshot := h.Tasks.Snapshot()
	h.mu.Unlock()

	tasks := query.Filter(snapshot, criteriaFromQuery(q))

	if name := q.Get("sort"); name != "" {
		field, ok := query.ParseField(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown sort field: "+name)
			return
		}
		dir := query.Asc
		if q.Get("dir") == string(query.Desc) {
			dir = query.Desc
		}
		query.Sort(tasks, field, dir)
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var req task.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "invalid priority: "+string(req.Priority))
		return
	}
	if !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category: "+string(req.Category))
		return
	}

	h.mu.Lock()
	t := h.Tasks.Create(req)
	h.mu.Unlock()

	h.Logger.Info("task created", slog.String("id", t.ID), slog.String("title", t.Title))
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) getTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.mu.Lock()
	t, ok := h.Tasks.Get(id)
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) updateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch task.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status: "+string(*patch.Status))
		return
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "invalid priority: "+string(*patch.Priority))
		return
	}
	if patch.Category != nil && !patch.Category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category: "+string(*patch.Category))
		return
	}

	h.mu.Lock()
	t, ok := h.Tasks.Update(id, patch)
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.mu.Lock()
	removed := h.Tasks.Delete(id)
	h.mu.Unlock()

	if !removed {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) completeTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		ActualHours *float64 `json:"actual_hours"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	h.mu.Lock()
	t, ok := h.Tasks.Complete(id, body.ActualHours)
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) assignTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		Assignee string `json:"assignee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	h.mu.Lock()
	t, ok := h.Tasks.Reassign(id, body.Assignee)
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) tagTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		Add    []string `json:"add"`
		Remove []string `json:"remove"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	h.mu.Lock()
	t, ok := h.Tasks.Get(id)
	if ok && len(body.Add) > 0 {
		t, ok = h.Tasks.AddTags(id, body.Add...)
	}
	if ok && len(body.Remove) > 0 {
		t, ok = h.Tasks.RemoveTags(id, body.Remove...)
	}
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// --- Query handlers ---

func (h *Handlers) stats(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	snapshot := h.Tasks.Snapshot()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, query.Statistics(snapshot, time.Now().UTC()))
}

func (h *Handlers) upcoming(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	h.mu.Lock()
	snapshot := h.Tasks.Snapshot()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, query.Upcoming(snapshot, time.Now().UTC(), days))
}

// --- Interchange handlers ---

func (h *Handlers) exportTasks(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	data, err := h.Tasks.Export()
	h.mu.Unlock()

	if err != nil {
		h.Logger.Error("export tasks", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) importTasks(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	h.mu.Lock()
	ok := h.Tasks.Import(data)
	count := h.Tasks.Len()
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusBadRequest, "invalid import payload")
		return
	}
	h.Logger.Info("tasks imported", slog.Int("count", count))
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// --- Status / version ---

func (h *Handlers) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
	})
}

// StatusHandler returns the status handler function for external registration.
func (h *Handlers) StatusHandler() http.HandlerFunc {
	return h.status
}

func (h *Handlers) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": h.Version,
	})
}
