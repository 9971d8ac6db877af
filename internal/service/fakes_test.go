package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"taskmanager/internal/domain"
)

// memStore is an in-memory entity store implementing every store port used
// by the services. Timestamps come from a ticking clock so that ordering by
// created_at is deterministic.
type memStore struct {
	mu          sync.Mutex
	seq         int64
	clock       time.Time
	users       map[int64]*domain.User
	tasks       map[int64]*domain.Task
	comments    map[int64]*domain.Comment
	attachments map[int64]*domain.Attachment
	audit       []domain.AuditLog

	failAttachmentCreate error
}

func newMemStore() *memStore {
	return &memStore{
		clock:       time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		users:       map[int64]*domain.User{},
		tasks:       map[int64]*domain.Task{},
		comments:    map[int64]*domain.Comment{},
		attachments: map[int64]*domain.Attachment{},
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) nextID() int64 {
	m.seq++
	return m.seq
}

func (m *memStore) addUser(name string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{ID: m.nextID(), Name: name, Email: strings.ToLower(name) + "@example.com", CreatedAt: m.tick()}
	m.users[u.ID] = u
	return u
}

func (m *memStore) record(userID int64, action string, resourceID int64) {
	m.audit = append(m.audit, domain.AuditLog{UserID: userID, Action: action, ResourceID: resourceID})
}

func paginate[T any](items []T, page domain.PageRequest) domain.Page[T] {
	out := domain.Page[T]{Total: len(items), Number: page.Number, PerPage: page.Size, Items: []T{}}
	start := page.Offset()
	if start >= len(items) {
		return out
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	out.Items = items[start:end]
	return out
}

// users

type memUsers struct{ *memStore }

func (s memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s memUsers) emailTaken(email string, except int64) bool {
	for _, u := range s.users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s memUsers) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email, 0) {
		return domain.ErrEmailTaken
	}
	u.ID = s.nextID()
	u.CreatedAt = s.tick()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	s.record(u.ID, domain.AuditActionRegister, u.ID)
	return nil
}

func (s memUsers) UpdateProfile(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return domain.ErrEmailTaken
	}
	u.UpdatedAt = s.tick()
	cp := *u
	s.users[u.ID] = &cp
	s.record(u.ID, domain.AuditActionProfileUpdate, u.ID)
	return nil
}

func (s memUsers) Search(_ context.Context, search string, page domain.PageRequest) (domain.Page[domain.User], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search = strings.ToLower(strings.TrimSpace(search))
	var out []domain.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), search) || strings.Contains(strings.ToLower(u.Email), search) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), nil
}

// tasks

type memTasks struct{ *memStore }

func (s memTasks) hydrate(t *domain.Task) domain.Task {
	cp := *t
	if u, ok := s.users[t.CreatedBy]; ok {
		c := *u
		cp.Creator = &c
	}
	if u, ok := s.users[t.AssignedTo]; ok {
		a := *u
		cp.Assignee = &a
	}
	cp.CommentsCount, cp.AttachmentsCount = 0, 0
	for _, c := range s.comments {
		if c.TaskID == t.ID {
			cp.CommentsCount++
		}
	}
	for _, a := range s.attachments {
		if a.TaskID == t.ID && a.DeletedAt == nil {
			cp.AttachmentsCount++
		}
	}
	return cp
}

func (s memTasks) List(_ context.Context, userID int64, filter domain.TaskFilter, page domain.PageRequest) (domain.Page[domain.Task], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Task
	for _, t := range s.tasks {
		if t.DeletedAt != nil || (t.CreatedBy != userID && t.AssignedTo != userID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.DueDate != nil && !dateOf(t.DueDate).Equal(dateOf(*filter.DueDate)) {
			continue
		}
		out = append(out, s.hydrate(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (s memTasks) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTaskNotFound
	}
	cp := s.hydrate(t)
	return &cp, nil
}

func (s memTasks) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID()
	t.CreatedAt = s.tick()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	s.tasks[t.ID] = &cp
	s.record(t.CreatedBy, domain.AuditActionTaskCreate, t.ID)
	return nil
}

func (s memTasks) Update(_ context.Context, actorID int64, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[t.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	stored.Title = t.Title
	stored.Description = t.Description
	stored.DueDate = t.DueDate
	stored.Priority = t.Priority
	stored.AssignedTo = t.AssignedTo
	stored.UpdatedAt = s.tick()
	s.record(actorID, domain.AuditActionTaskUpdate, t.ID)
	return nil
}

func (s memTasks) UpdateStatus(_ context.Context, actorID, id int64, status domain.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[id]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	stored.Status = status
	stored.UpdatedAt = s.tick()
	s.record(actorID, domain.AuditActionTaskStatus, id)
	return nil
}

func (s memTasks) SoftDelete(_ context.Context, actorID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[id]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	now := s.tick()
	stored.DeletedAt = &now
	s.record(actorID, domain.AuditActionTaskDelete, id)
	return nil
}

// comments

type memComments struct{ *memStore }

func (s memComments) hydrate(c *domain.Comment) domain.Comment {
	cp := *c
	if u, ok := s.users[c.UserID]; ok {
		a := *u
		cp.Author = &a
	}
	return cp
}

func (s memComments) all(taskID int64) []domain.Comment {
	var out []domain.Comment
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out = append(out, s.hydrate(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s memComments) ListByTask(_ context.Context, taskID int64, page domain.PageRequest) (domain.Page[domain.Comment], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(s.all(taskID), page), nil
}

func (s memComments) ListAllByTask(_ context.Context, taskID int64) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all(taskID), nil
}

func (s memComments) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	cp := s.hydrate(c)
	return &cp, nil
}

func (s memComments) Create(_ context.Context, c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	s.comments[c.ID] = &cp
	s.record(c.UserID, domain.AuditActionCommentCreate, c.ID)
	return nil
}

func (s memComments) UpdateContent(_ context.Context, actorID, id int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = s.tick()
	s.record(actorID, domain.AuditActionCommentUpdate, id)
	return nil
}

func (s memComments) Delete(_ context.Context, actorID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(s.comments, id)
	s.record(actorID, domain.AuditActionCommentDelete, id)
	return nil
}

// attachments

type memAttachments struct{ *memStore }

func (s memAttachments) hydrate(a *domain.Attachment) domain.Attachment {
	cp := *a
	if u, ok := s.users[a.UserID]; ok {
		up := *u
		cp.Uploader = &up
	}
	return cp
}

func (s memAttachments) all(taskID int64) []domain.Attachment {
	var out []domain.Attachment
	for _, a := range s.attachments {
		if a.TaskID == taskID && a.DeletedAt == nil {
			out = append(out, s.hydrate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s memAttachments) ListByTask(_ context.Context, taskID int64, page domain.PageRequest) (domain.Page[domain.Attachment], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(s.all(taskID), page), nil
}

func (s memAttachments) ListAllByTask(_ context.Context, taskID int64) ([]domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all(taskID), nil
}

func (s memAttachments) GetByID(_ context.Context, id int64) (*domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[id]
	if !ok || a.DeletedAt != nil {
		return nil, domain.ErrAttachmentNotFound
	}
	cp := s.hydrate(a)
	return &cp, nil
}

func (s memAttachments) Create(_ context.Context, a *domain.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAttachmentCreate != nil {
		return s.failAttachmentCreate
	}
	a.ID = s.nextID()
	a.CreatedAt = s.tick()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	s.attachments[a.ID] = &cp
	s.record(a.UserID, domain.AuditActionAttachmentCreate, a.ID)
	return nil
}

func (s memAttachments) SoftDelete(_ context.Context, actorID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[id]
	if !ok || a.DeletedAt != nil {
		return domain.ErrAttachmentNotFound
	}
	now := s.tick()
	a.DeletedAt = &now
	s.record(actorID, domain.AuditActionAttachmentDelete, id)
	return nil
}

// memBlobs is an in-memory blob store that counts writes.
type memBlobs struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	puts      int
	deleteErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: map[string][]byte{}}
}

func (b *memBlobs) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
	b.blobs[key] = data
	return nil
}

func (b *memBlobs) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.blobs[key]; !ok {
		return domain.ErrBlobNotFound
	}
	delete(b.blobs, key)
	return nil
}

func (b *memBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.blobs[key]
	return ok
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}

// memRevoker is a TokenRevoker backed by a map.
type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newMemRevoker() *memRevoker {
	return &memRevoker{revoked: map[string]time.Time{}}
}

func (r *memRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = until
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[jti]
	return ok, nil
}

// memAudit is an AuditStore backed by a slice.
type memAudit struct {
	mu   sync.Mutex
	logs []*domain.AuditLog
	err  error
}

func (a *memAudit) Create(_ context.Context, log *domain.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	log.ID = int64(len(a.logs) + 1)
	a.logs = append(a.logs, log)
	return nil
}

func (a *memAudit) GetByUserID(_ context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*domain.AuditLog
	for i := len(a.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if a.logs[i].UserID == userID {
			out = append(out, a.logs[i])
		}
	}
	return out, nil
}

var errStoreDown = errors.New("store is down")

// fixture wires every service over one memStore.
type fixture struct {
	store       *memStore
	blobs       *memBlobs
	tasks       *TaskService
	comments    *CommentService
	attachments *AttachmentService
	users       *UserService
}

// today is the fixed "now" of task validation in tests.
var today = time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	store := newMemStore()
	blobs := newMemBlobs()
	f := &fixture{
		store:       store,
		blobs:       blobs,
		tasks:       NewTaskService(memTasks{store}, memUsers{store}, memComments{store}, memAttachments{store}),
		comments:    NewCommentService(memTasks{store}, memComments{store}),
		attachments: NewAttachmentService(memTasks{store}, memAttachments{store}, blobs),
		users:       NewUserService(memUsers{store}, blobs),
	}
	f.tasks.now = func() time.Time { return today }
	return f
}

func actorOf(u *domain.User) domain.Actor {
	return domain.Actor{ID: u.ID}
}
