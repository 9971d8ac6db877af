// Package resource projects domain entities into the JSON shapes returned by
// the API. Projections never expose password hashes or storage keys.
package resource

import (
	"strconv"
	"time"

	"taskmanager/internal/domain"
)

// Mode selects how much of a task is projected.
type Mode int

const (
	// Summary projects a task without its comments and attachments.
	Summary Mode = iota
	// Detailed also projects the loaded comments and attachments.
	Detailed
)

const dateLayout = "2006-01-02"

type User struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Avatar    *string `json:"avatar"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type Task struct {
	ID               int64         `json:"id"`
	Title            string        `json:"title"`
	Description      *string       `json:"description"`
	DueDate          string        `json:"due_date"`
	Priority         string        `json:"priority"`
	Status           string        `json:"status"`
	CreatedBy        *User         `json:"created_by"`
	AssignedTo       *User         `json:"assigned_to"`
	CommentsCount    int           `json:"comments_count"`
	AttachmentsCount int           `json:"attachments_count"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
	Comments         *[]Comment    `json:"comments,omitempty"`
	Attachments      *[]Attachment `json:"attachments,omitempty"`
}

type Comment struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"task_id"`
	Content   string `json:"content"`
	User      *User  `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Attachment struct {
	ID               int64  `json:"id"`
	TaskID           int64  `json:"task_id"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	Size             int64  `json:"size"`
	Checksum         string `json:"checksum"`
	DownloadURL      string `json:"download_url"`
	User             *User  `json:"user"`
	CreatedAt        string `json:"created_at"`
}

// Meta describes the position of a page in a listing.
type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

type Paginated[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

func FromUser(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: timestamp(u.CreatedAt),
		UpdatedAt: timestamp(u.UpdatedAt),
	}
}

// FromTask projects t. In Detailed mode comments and attachments are always
// present, as empty lists when the task has none.
func FromTask(t *domain.Task, mode Mode) Task {
	out := Task{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		DueDate:          t.DueDate.UTC().Format(dateLayout),
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		CreatedBy:        FromUser(t.Creator),
		AssignedTo:       FromUser(t.Assignee),
		CommentsCount:    t.CommentsCount,
		AttachmentsCount: t.AttachmentsCount,
		CreatedAt:        timestamp(t.CreatedAt),
		UpdatedAt:        timestamp(t.UpdatedAt),
	}
	if mode == Detailed {
		comments := make([]Comment, 0, len(t.Comments))
		for i := range t.Comments {
			comments = append(comments, FromComment(&t.Comments[i]))
		}
		attachments := make([]Attachment, 0, len(t.Attachments))
		for i := range t.Attachments {
			attachments = append(attachments, FromAttachment(&t.Attachments[i]))
		}
		out.Comments = &comments
		out.Attachments = &attachments
	}
	return out
}

func FromComment(c *domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Content:   c.Content,
		User:      FromUser(c.Author),
		CreatedAt: timestamp(c.CreatedAt),
		UpdatedAt: timestamp(c.UpdatedAt),
	}
}

func FromAttachment(a *domain.Attachment) Attachment {
	return Attachment{
		ID:               a.ID,
		TaskID:           a.TaskID,
		OriginalFilename: a.OriginalFilename,
		MimeType:         a.MimeType,
		Size:             a.Size,
		Checksum:         a.Checksum,
		DownloadURL:      "/api/v1/tasks/attachments/" + strconv.FormatInt(a.ID, 10) + "/download",
		User:             FromUser(a.Uploader),
		CreatedAt:        timestamp(a.CreatedAt),
	}
}

// Paginate projects every item of page with fn.
func Paginate[S, T any](page domain.Page[S], fn func(*S) T) Paginated[T] {
	data := make([]T, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, fn(&page.Items[i]))
	}
	return Paginated[T]{
		Data: data,
		Meta: Meta{
			CurrentPage: page.Number,
			PerPage:     page.PerPage,
			Total:       page.Total,
			LastPage:    page.LastPage(),
		},
	}
}

// SummaryTask is FromTask in Summary mode, shaped for Paginate.
func SummaryTask(t *domain.Task) Task {
	return FromTask(t, Summary)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
