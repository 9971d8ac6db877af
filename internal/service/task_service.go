package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"taskmanager/internal/domain"
	"taskmanager/internal/policy"
)

const maxTitleLength = 255

// TaskService handles task business logic. Every call is made on behalf of
// an explicit actor.
type TaskService struct {
	tasks       TaskStore
	users       UserStore
	comments    CommentStore
	attachments AttachmentStore
	now         func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(tasks TaskStore, users UserStore, comments CommentStore, attachments AttachmentStore) *TaskService {
	return &TaskService{
		tasks:       tasks,
		users:       users,
		comments:    comments,
		attachments: attachments,
		now:         time.Now,
	}
}

// List returns one page of the tasks the actor created or is assigned to.
func (s *TaskService) List(ctx context.Context, actor domain.Actor, filter domain.TaskFilter, page int) (domain.Page[domain.Task], error) {
	v := domain.ValidationErrors{}
	if filter.Status != nil && !filter.Status.Valid() {
		v.Add("status", "in")
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		v.Add("priority", "in")
	}
	if err := v.Err(policy.ResourceTask); err != nil {
		return domain.Page[domain.Task]{}, err
	}

	return s.tasks.List(ctx, actor.ID, filter, domain.NewPageRequest(page, domain.TaskPageSize))
}

// Create stores a new pending task owned by the actor.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in domain.TaskInput) (*domain.Task, error) {
	in, err := s.validateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      domain.TaskStatusPending,
		CreatedBy:   actor.ID,
		AssignedTo:  in.AssignedTo,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, task.ID)
}

// Get returns the task with its comments and attachments loaded.
func (s *TaskService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(policy.Task(actor, policy.ActionView, task), policy.ResourceTask, policy.ActionView); err != nil {
		return nil, err
	}

	if task.Comments, err = s.comments.ListAllByTask(ctx, task.ID); err != nil {
		return nil, err
	}
	if task.Attachments, err = s.attachments.ListAllByTask(ctx, task.ID); err != nil {
		return nil, err
	}
	task.CommentsCount = len(task.Comments)
	task.AttachmentsCount = len(task.Attachments)
	return task, nil
}

// Update replaces the client-editable fields of a task. Creator and status
// are left as they are.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id int64, in domain.TaskInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(policy.Task(actor, policy.ActionUpdate, task), policy.ResourceTask, policy.ActionUpdate); err != nil {
		return nil, err
	}
	in, err = s.validateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = in.DueDate
	task.Priority = in.Priority
	task.AssignedTo = in.AssignedTo
	if err := s.tasks.Update(ctx, actor.ID, task); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(policy.Task(actor, policy.ActionUpdate, task), policy.ResourceTask, policy.ActionUpdate); err != nil {
		return nil, err
	}
	if !status.Valid() {
		v := domain.ValidationErrors{}
		v.Add("status", "in")
		return nil, v.Err(policy.ResourceTask)
	}

	if err := s.tasks.UpdateStatus(ctx, actor.ID, id, status); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

// Delete soft-deletes the task. Only its creator may do so.
func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(policy.Task(actor, policy.ActionDelete, task), policy.ResourceTask, policy.ActionDelete); err != nil {
		return err
	}
	return s.tasks.SoftDelete(ctx, actor.ID, id)
}

// validateInput normalizes in and checks every field, returning all failures
// at once.
func (s *TaskService) validateInput(ctx context.Context, in domain.TaskInput) (domain.TaskInput, error) {
	v := domain.ValidationErrors{}

	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		v.Add("title", "required")
	case utf8.RuneCountInString(in.Title) > maxTitleLength:
		v.Add("title", "max")
	}

	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}

	if in.DueDate.IsZero() {
		v.Add("due_date", "required")
	} else if dateOf(in.DueDate).Before(dateOf(s.now())) {
		v.Add("due_date", "after_or_equal")
	}

	if !in.Priority.Valid() {
		v.Add("priority", "in")
	}

	if in.AssignedTo <= 0 {
		v.Add("assigned_to", "required")
	} else if _, err := s.users.GetByID(ctx, in.AssignedTo); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return in, err
		}
		v.Add("assigned_to", "exists")
	}

	return in, v.Err(policy.ResourceTask)
}

// dateOf truncates t to midnight UTC of its calendar day.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
