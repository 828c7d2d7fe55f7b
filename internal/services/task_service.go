package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
	ws "github.com/taskdeck/taskdeck-be/internal/websocket"
)

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	Create(p auth.Principal, in models.TaskCreate) (models.Task, error)
	Get(p auth.Principal, id string) (models.Task, error)
	Update(p auth.Principal, id string, in models.TaskUpdate) (models.Task, error)
	Complete(p auth.Principal, id string) (models.Task, error)
	Delete(p auth.Principal, id string) error
	ListForOwner(p auth.Principal, f models.TaskFilter) ([]models.Task, error)
	ListAll(f models.TaskFilter) ([]models.Task, error)
	Stats(p auth.Principal) (models.TaskStats, error)
}

// TaskService provides business logic for task management. Every mutation
// goes through the ownership guard: a task is reachable only by its owner
// or an admin.
type TaskService struct {
	db     *sql.DB
	events EventServiceProvider
	hub    *ws.Hub
}

// NewTaskService creates a new TaskService. hub may be nil.
func NewTaskService(db *sql.DB, events EventServiceProvider, hub *ws.Hub) *TaskService {
	return &TaskService{db: db, events: events, hub: hub}
}

const taskColumns = "id, title, description, status, priority, completed, due_date, owner_id, created_at, updated_at"

// Create inserts a new task owned by the principal.
func (s *TaskService) Create(p auth.Principal, in models.TaskCreate) (models.Task, error) {
	if len(in.Title) < 1 || len(in.Title) > 200 {
		return models.Task{}, fmt.Errorf("%w: title must be 1-200 characters", apperr.ErrValidation)
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Status.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, in.Status)
	}
	if !in.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown priority %q", apperr.ErrValidation, in.Priority)
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Completed:   in.Status == models.StatusCompleted,
		DueDate:     in.DueDate,
		OwnerID:     p.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.Exec(
		"INSERT INTO tasks(id, title, description, status, priority, completed, due_date, owner_id, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.Title, task.Description, task.Status, task.Priority, task.Completed, task.DueDate, task.OwnerID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	s.events.Record("task.create", "info", "Task created: "+task.Title, &p.ID)
	s.hub.Publish(task.OwnerID, ws.NewActivityMessage("task.created", task))
	return task, nil
}

// Get retrieves a task the principal is allowed to see.
func (s *TaskService) Get(p auth.Principal, id string) (models.Task, error) {
	task, err := s.getByID(id)
	if err != nil {
		return models.Task{}, err
	}
	if err := auth.AuthorizeOwnership(p, task.OwnerID); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) getByID(id string) (models.Task, error) {
	var task models.Task
	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.Completed, &task.DueDate, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, apperr.ErrNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

// Update applies a partial update to a task after the ownership check.
func (s *TaskService) Update(p auth.Principal, id string, in models.TaskUpdate) (models.Task, error) {
	task, err := s.Get(p, id)
	if err != nil {
		return models.Task{}, err
	}

	sets := []string{}
	args := []any{}

	if in.Title != nil {
		if len(*in.Title) < 1 || len(*in.Title) > 200 {
			return models.Task{}, fmt.Errorf("%w: title must be 1-200 characters", apperr.ErrValidation)
		}
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return models.Task{}, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, *in.Status)
		}
		sets = append(sets, "status = ?")
		args = append(args, *in.Status)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return models.Task{}, fmt.Errorf("%w: unknown priority %q", apperr.ErrValidation, *in.Priority)
		}
		sets = append(sets, "priority = ?")
		args = append(args, *in.Priority)
	}
	if in.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *in.Completed)
	}
	if in.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *in.DueDate)
	}

	if len(sets) == 0 {
		return task, nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return models.Task{}, err
	}

	updated, err := s.getByID(id)
	if err != nil {
		return models.Task{}, err
	}

	s.events.Record("task.update", "info", "Task updated: "+updated.Title, &p.ID)
	s.hub.Publish(updated.OwnerID, ws.NewActivityMessage("task.updated", updated))
	return updated, nil
}

// Complete marks a task as completed.
func (s *TaskService) Complete(p auth.Principal, id string) (models.Task, error) {
	task, err := s.Get(p, id)
	if err != nil {
		return models.Task{}, err
	}

	_, err = s.db.Exec(
		"UPDATE tasks SET completed = ?, status = ?, updated_at = ? WHERE id = ?",
		true, models.StatusCompleted, time.Now().UTC(), id,
	)
	if err != nil {
		return models.Task{}, err
	}

	updated, err := s.getByID(id)
	if err != nil {
		return models.Task{}, err
	}

	s.events.Record("task.complete", "info", "Task completed: "+task.Title, &p.ID)
	s.hub.Publish(updated.OwnerID, ws.NewActivityMessage("task.completed", updated))
	return updated, nil
}

// Delete removes a task after the ownership check.
func (s *TaskService) Delete(p auth.Principal, id string) error {
	task, err := s.Get(p, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id); err != nil {
		return err
	}

	s.events.Record("task.delete", "info", "Task deleted: "+task.Title, &p.ID)
	s.hub.Publish(task.OwnerID, ws.NewActivityMessage("task.deleted", task))
	return nil
}

// ListForOwner retrieves the principal's tasks, newest first.
func (s *TaskService) ListForOwner(p auth.Principal, f models.TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE owner_id = ?"
	args := []any{p.ID}
	query, args = applyFilter(query, args, f)
	return s.list(query, args...)
}

// ListAll retrieves every user's tasks, newest first. Callers must gate
// this behind the admin role.
func (s *TaskService) ListAll(f models.TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE 1=1"
	args := []any{}
	query, args = applyFilter(query, args, f)
	return s.list(query, args...)
}

func applyFilter(query string, args []any, f models.TaskFilter) (string, []any) {
	if f.Status != nil {
		query += " AND status = ?"
		args = append(args, *f.Status)
	}
	if f.Priority != nil {
		query += " AND priority = ?"
		args = append(args, *f.Priority)
	}
	if f.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *f.Completed)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)
	return query, args
}

func (s *TaskService) list(query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.Completed, &task.DueDate, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Stats aggregates the principal's task counts.
func (s *TaskService) Stats(p auth.Principal) (models.TaskStats, error) {
	var stats models.TaskStats
	row := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(completed), 0),
			COALESCE(SUM(status = 'pending'), 0),
			COALESCE(SUM(status = 'in_progress'), 0)
		FROM tasks WHERE owner_id = ?`, p.ID)
	if err := row.Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.InProgress); err != nil {
		return models.TaskStats{}, err
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats, nil
}
