package handlers

import (
	"context"
	"io"

	"taskmanager/internal/domain"
	"taskmanager/internal/service"
)

// The interfaces below are the service operations the handlers call. The
// concrete services live in internal/service.

type TaskService interface {
	List(ctx context.Context, actor domain.Actor, filter domain.TaskFilter, page int) (domain.Page[domain.Task], error)
	Create(ctx context.Context, actor domain.Actor, in domain.TaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Task, error)
	Update(ctx context.Context, actor domain.Actor, id int64, in domain.TaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type CommentService interface {
	List(ctx context.Context, actor domain.Actor, taskID int64, page int) (domain.Page[domain.Comment], error)
	Create(ctx context.Context, actor domain.Actor, taskID int64, content string) (*domain.Comment, error)
	Update(ctx context.Context, actor domain.Actor, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type AttachmentService interface {
	List(ctx context.Context, actor domain.Actor, taskID int64, page int) (domain.Page[domain.Attachment], error)
	Create(ctx context.Context, actor domain.Actor, taskID int64, upload domain.Upload) (*domain.Attachment, error)
	Download(ctx context.Context, actor domain.Actor, id int64) (*domain.Attachment, io.ReadCloser, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type UserService interface {
	Profile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error)
	Search(ctx context.Context, search string, page int) (domain.Page[domain.User], error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Logout(ctx context.Context, claims service.TokenClaims) error
}

type AuditService interface {
	GetUserAuditLogs(ctx context.Context, actor domain.Actor, limit int) ([]*domain.AuditLog, error)
}

// Services groups the dependencies of Handler.
type Services struct {
	Tasks       TaskService
	Comments    CommentService
	Attachments AttachmentService
	Users       UserService
	Auth        AuthService
	Audit       AuditService
}

type Handler struct {
	tasks       TaskService
	comments    CommentService
	attachments AttachmentService
	users       UserService
	auth        AuthService
	audit       AuditService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		tasks:       s.Tasks,
		comments:    s.Comments,
		attachments: s.Attachments,
		users:       s.Users,
		auth:        s.Auth,
		audit:       s.Audit,
	}
}
