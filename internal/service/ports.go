package service

import (
	"context"
	"time"

	"taskmanager/internal/domain"
)

// TaskStore is the persistence the task service needs. It is satisfied by
// repository.TaskRepository.
type TaskStore interface {
	List(ctx context.Context, userID int64, filter domain.TaskFilter, page domain.PageRequest) (domain.Page[domain.Task], error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, actorID int64, t *domain.Task) error
	UpdateStatus(ctx context.Context, actorID, id int64, status domain.TaskStatus) error
	SoftDelete(ctx context.Context, actorID, id int64) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	UpdateProfile(ctx context.Context, u *domain.User) error
	Search(ctx context.Context, search string, page domain.PageRequest) (domain.Page[domain.User], error)
}

type CommentStore interface {
	ListByTask(ctx context.Context, taskID int64, page domain.PageRequest) (domain.Page[domain.Comment], error)
	ListAllByTask(ctx context.Context, taskID int64) ([]domain.Comment, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) error
	UpdateContent(ctx context.Context, actorID, id int64, content string) error
	Delete(ctx context.Context, actorID, id int64) error
}

type AttachmentStore interface {
	ListByTask(ctx context.Context, taskID int64, page domain.PageRequest) (domain.Page[domain.Attachment], error)
	ListAllByTask(ctx context.Context, taskID int64) ([]domain.Attachment, error)
	GetByID(ctx context.Context, id int64) (*domain.Attachment, error)
	Create(ctx context.Context, a *domain.Attachment) error
	SoftDelete(ctx context.Context, actorID, id int64) error
}

// TokenRevoker remembers logged-out token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
