package models

import "time"

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Completed   bool         `json:"completed"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	OwnerID     string       `json:"ownerId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskCreate carries the fields a client may set when creating a task.
// Zero-value status and priority fall back to pending/medium.
type TaskCreate struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
}

// TaskUpdate carries a partial update of a task. Nil fields are left
// untouched.
type TaskUpdate struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	Completed   *bool         `json:"completed"`
	DueDate     *time.Time    `json:"dueDate"`
}

// TaskFilter narrows task listings. Nil fields match everything.
type TaskFilter struct {
	Status    *TaskStatus
	Priority  *TaskPriority
	Completed *bool
	Limit     int
	Offset    int
}

// TaskStats aggregates a user's task counts.
type TaskStats struct {
	Total          int     `json:"totalTasks"`
	Completed      int     `json:"completedTasks"`
	Pending        int     `json:"pendingTasks"`
	InProgress     int     `json:"inProgressTasks"`
	CompletionRate float64 `json:"completionRate"`
}
