package handlers

import (
	"net/http"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/resource"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// TaskRequest is the body of task create and update. Any created_by or
// status sent by the client is ignored.
type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date"`
	Priority    string  `json:"priority"`
	AssignedTo  int64   `json:"assigned_to"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (r TaskRequest) input() (domain.TaskInput, map[string]string) {
	in := domain.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.TaskPriority(r.Priority),
		AssignedTo:  r.AssignedTo,
	}
	if r.DueDate == "" {
		return in, nil
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return in, map[string]string{"due_date": "date"}
	}
	in.DueDate = due
	return in, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ListTasks - GET /tasks?status=&priority=&due_date=&page=
func (h *Handler) ListTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var filter domain.TaskFilter
	if v := c.Query("status"); v != "" {
		status := domain.TaskStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TaskPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("due_date"); v != "" {
		due, err := parseDate(v)
		if err != nil {
			invalid(c, map[string]string{"due_date": "date"})
			return
		}
		filter.DueDate = &due
	}

	page, err := h.tasks.List(c.Request.Context(), actor, filter, pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Paginate(page, resource.SummaryTask))
}

// CreateTask - POST /tasks
func (h *Handler) CreateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}
	in, fields := req.input()
	if fields != nil {
		invalid(c, fields)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), actor, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resource.FromTask(task, resource.Summary))
}

// GetTask - GET /tasks/:id, with comments and attachments
func (h *Handler) GetTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), actor, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.FromTask(task, resource.Detailed))
}

// UpdateTask - PUT /tasks/:id. Every field must be sent again.
func (h *Handler) UpdateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}
	in, fields := req.input()
	if fields != nil {
		invalid(c, fields)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.FromTask(task, resource.Summary))
}

// UpdateTaskStatus - PUT /tasks/:id/status
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), actor, id, domain.TaskStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.FromTask(task, resource.Summary))
}

// DeleteTask - DELETE /tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	message(c, apierrors.MsgTaskDeleted)
}
