package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"taskmanager/internal/domain"
	"taskmanager/internal/policy"
)

const maxCommentLength = 1000

type CommentService struct {
	tasks    TaskStore
	comments CommentStore
}

func NewCommentService(tasks TaskStore, comments CommentStore) *CommentService {
	return &CommentService{tasks: tasks, comments: comments}
}

// List pages through the comments of a task the actor can view.
func (s *CommentService) List(ctx context.Context, actor domain.Actor, taskID int64, page int) (domain.Page[domain.Comment], error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	if err := authorize(policy.Comment(actor, policy.ActionView, nil, task), policy.ResourceComment, policy.ActionView); err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	return s.comments.ListByTask(ctx, taskID, domain.NewPageRequest(page, domain.CommentPageSize))
}

func (s *CommentService) Create(ctx context.Context, actor domain.Actor, taskID int64, content string) (*domain.Comment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(policy.Comment(actor, policy.ActionCreate, nil, task), policy.ResourceComment, policy.ActionCreate); err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{TaskID: taskID, UserID: actor.ID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// Update rewrites the content of a comment. Only its author may edit it.
func (s *CommentService) Update(ctx context.Context, actor domain.Actor, id int64, content string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := parentTask(ctx, s.tasks, comment.TaskID, domain.ErrCommentNotFound); err != nil {
		return nil, err
	}
	if err := authorize(policy.Comment(actor, policy.ActionUpdate, comment, nil), policy.ResourceComment, policy.ActionUpdate); err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(ctx, actor.ID, id, content); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, id)
}

func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := parentTask(ctx, s.tasks, comment.TaskID, domain.ErrCommentNotFound); err != nil {
		return err
	}
	if err := authorize(policy.Comment(actor, policy.ActionDelete, comment, nil), policy.ResourceComment, policy.ActionDelete); err != nil {
		return err
	}
	return s.comments.Delete(ctx, actor.ID, id)
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	v := domain.ValidationErrors{}
	switch {
	case content == "":
		v.Add("content", "required")
	case utf8.RuneCountInString(content) > maxCommentLength:
		v.Add("content", "max")
	}
	return content, v.Err(policy.ResourceComment)
}

// parentTask loads the task a comment or attachment belongs to. Children of
// a deleted task are reported as notFound.
func parentTask(ctx context.Context, tasks TaskStore, taskID int64, notFound error) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, notFound
	}
	return task, err
}
