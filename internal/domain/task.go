package domain

import "time"

// TaskPriority - priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TaskStatus - workflow status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOnHold     TaskStatus = "on_hold"
)

// Valid reports whether s is one of the enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusOnHold:
		return true
	}
	return false
}

// Task is owned by its creator and worked on by its assignee.
// Creator, Assignee, Comments and Attachments are populated only when the
// store was asked to load them.
type Task struct {
	ID          int64        `db:"id"`
	Title       string       `db:"title"`
	Description *string      `db:"description"`
	DueDate     time.Time    `db:"due_date"`
	Priority    TaskPriority `db:"priority"`
	Status      TaskStatus   `db:"status"`
	CreatedBy   int64        `db:"created_by"`
	AssignedTo  int64        `db:"assigned_to"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	DeletedAt   *time.Time   `db:"deleted_at"`

	CommentsCount    int `db:"comments_count"`
	AttachmentsCount int `db:"attachments_count"`

	Creator     *User
	Assignee    *User
	Comments    []Comment
	Attachments []Attachment
}

// TaskFilter narrows a task listing. Nil fields are not applied.
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	DueDate  *time.Time
}

// TaskInput carries the client-writable fields of a task. The same shape is
// used for create and for the full-replacement update.
type TaskInput struct {
	Title       string
	Description *string
	DueDate     time.Time
	Priority    TaskPriority
	AssignedTo  int64
}

// ChecklistItem is a sub-step of a task. It is persisted but not exposed
// through the API.
type ChecklistItem struct {
	ID          int64     `db:"id"`
	TaskID      int64     `db:"task_id"`
	Item        string    `db:"item"`
	IsCompleted bool      `db:"is_completed"`
	Position    int       `db:"position"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
