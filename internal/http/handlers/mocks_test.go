package handlers_test

import (
	"context"
	"io"

	"taskmanager/internal/domain"
	"taskmanager/internal/service"

	"github.com/stretchr/testify/mock"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) List(ctx context.Context, actor domain.Actor, filter domain.TaskFilter, page int) (domain.Page[domain.Task], error) {
	args := m.Called(ctx, actor, filter, page)
	return args.Get(0).(domain.Page[domain.Task]), args.Error(1)
}

func (m *taskServiceMock) Create(ctx context.Context, actor domain.Actor, in domain.TaskInput) (*domain.Task, error) {
	args := m.Called(ctx, actor, in)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Task, error) {
	args := m.Called(ctx, actor, id)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) Update(ctx context.Context, actor domain.Actor, id int64, in domain.TaskInput) (*domain.Task, error) {
	args := m.Called(ctx, actor, id, in)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.TaskStatus) (*domain.Task, error) {
	args := m.Called(ctx, actor, id, status)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func taskArg(v any) *domain.Task {
	if v == nil {
		return nil
	}
	return v.(*domain.Task)
}

type commentServiceMock struct {
	mock.Mock
}

func (m *commentServiceMock) List(ctx context.Context, actor domain.Actor, taskID int64, page int) (domain.Page[domain.Comment], error) {
	args := m.Called(ctx, actor, taskID, page)
	return args.Get(0).(domain.Page[domain.Comment]), args.Error(1)
}

func (m *commentServiceMock) Create(ctx context.Context, actor domain.Actor, taskID int64, content string) (*domain.Comment, error) {
	args := m.Called(ctx, actor, taskID, content)
	return commentArg(args.Get(0)), args.Error(1)
}

func (m *commentServiceMock) Update(ctx context.Context, actor domain.Actor, id int64, content string) (*domain.Comment, error) {
	args := m.Called(ctx, actor, id, content)
	return commentArg(args.Get(0)), args.Error(1)
}

func (m *commentServiceMock) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func commentArg(v any) *domain.Comment {
	if v == nil {
		return nil
	}
	return v.(*domain.Comment)
}

type attachmentServiceMock struct {
	mock.Mock
}

func (m *attachmentServiceMock) List(ctx context.Context, actor domain.Actor, taskID int64, page int) (domain.Page[domain.Attachment], error) {
	args := m.Called(ctx, actor, taskID, page)
	return args.Get(0).(domain.Page[domain.Attachment]), args.Error(1)
}

func (m *attachmentServiceMock) Create(ctx context.Context, actor domain.Actor, taskID int64, upload domain.Upload) (*domain.Attachment, error) {
	args := m.Called(ctx, actor, taskID, upload)
	return attachmentArg(args.Get(0)), args.Error(1)
}

func (m *attachmentServiceMock) Download(ctx context.Context, actor domain.Actor, id int64) (*domain.Attachment, io.ReadCloser, error) {
	args := m.Called(ctx, actor, id)
	var rc io.ReadCloser
	if v := args.Get(1); v != nil {
		rc = v.(io.ReadCloser)
	}
	return attachmentArg(args.Get(0)), rc, args.Error(2)
}

func (m *attachmentServiceMock) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func attachmentArg(v any) *domain.Attachment {
	if v == nil {
		return nil
	}
	return v.(*domain.Attachment)
}

type userServiceMock struct {
	mock.Mock
}

func (m *userServiceMock) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, actor)
	return userArg(args.Get(0)), args.Error(1)
}

func (m *userServiceMock) UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, actor, upd)
	return userArg(args.Get(0)), args.Error(1)
}

func (m *userServiceMock) Search(ctx context.Context, search string, page int) (domain.Page[domain.User], error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).(domain.Page[domain.User]), args.Error(1)
}

func userArg(v any) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, name, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	return authArg(args.Get(0)), args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return authArg(args.Get(0)), args.Error(1)
}

func (m *authServiceMock) Logout(ctx context.Context, claims service.TokenClaims) error {
	return m.Called(ctx, claims).Error(0)
}

func authArg(v any) *service.AuthResult {
	if v == nil {
		return nil
	}
	return v.(*service.AuthResult)
}

type auditServiceMock struct {
	mock.Mock
}

func (m *auditServiceMock) GetUserAuditLogs(ctx context.Context, actor domain.Actor, limit int) ([]*domain.AuditLog, error) {
	args := m.Called(ctx, actor, limit)
	var logs []*domain.AuditLog
	if v := args.Get(0); v != nil {
		logs = v.([]*domain.AuditLog)
	}
	return logs, args.Error(1)
}

// tokenAuth accepts "token-<n>" for the users listed in it.
type tokenAuth map[string]service.TokenClaims

func (a tokenAuth) Authenticate(_ context.Context, token string) (*service.TokenClaims, error) {
	claims, ok := a[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return &claims, nil
}
