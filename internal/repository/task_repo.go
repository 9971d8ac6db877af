package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db    *pgxpool.Pool
	audit *AuditRepository
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db, audit: NewAuditRepository(db)}
}

// taskSelect loads a task together with its creator, its assignee and the
// number of comments and live attachments.
const taskSelect = `
SELECT
  t.id, t.title, t.description, t.due_date, t.priority, t.status,
  t.created_by, t.assigned_to, t.created_at, t.updated_at,
  (SELECT COUNT(*) FROM task_comments tc WHERE tc.task_id = t.id),
  (SELECT COUNT(*) FROM task_attachments ta WHERE ta.task_id = t.id AND ta.deleted_at IS NULL),
  cu.id, cu.name, cu.email, cu.avatar, cu.created_at, cu.updated_at,
  au.id, au.name, au.email, au.avatar, au.created_at, au.updated_at
FROM tasks t
JOIN users cu ON cu.id = t.created_by
JOIN users au ON au.id = t.assigned_to
`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                 domain.Task
		priority, status  string
		creator, assignee domain.User
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &priority, &status,
		&t.CreatedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
		&t.CommentsCount, &t.AttachmentsCount,
		&creator.ID, &creator.Name, &creator.Email, &creator.Avatar, &creator.CreatedAt, &creator.UpdatedAt,
		&assignee.ID, &assignee.Name, &assignee.Email, &assignee.Avatar, &assignee.CreatedAt, &assignee.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	t.Priority = domain.TaskPriority(priority)
	t.Status = domain.TaskStatus(status)
	t.Creator = &creator
	t.Assignee = &assignee
	return &t, nil
}

// List returns the tasks the user created or is assigned to, filtered and
// ordered by due date.
func (r *TaskRepository) List(ctx context.Context, userID int64, filter domain.TaskFilter, page domain.PageRequest) (domain.Page[domain.Task], error) {
	result := domain.Page[domain.Task]{Number: page.Number, PerPage: page.Size}

	where := []string{"t.deleted_at IS NULL", "(t.created_by = $1 OR t.assigned_to = $1)"}
	args := []any{userID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		where = append(where, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	if filter.DueDate != nil {
		d := filter.DueDate.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, day, day.AddDate(0, 0, 1))
		where = append(where, fmt.Sprintf("t.due_date >= $%d AND t.due_date < $%d", len(args)-1, len(args)))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t`+clause, args...).Scan(&result.Total); err != nil {
		return result, err
	}

	args = append(args, page.Size, page.Offset())
	query := taskSelect + clause +
		fmt.Sprintf(" ORDER BY t.due_date ASC, t.id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	result.Items = make([]domain.Task, 0, page.Size)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *t)
	}
	return result, rows.Err()
}

// GetByID returns a live (not soft-deleted) task.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1 AND t.deleted_at IS NULL`, id))
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		err := tx.QueryRow(ctx,
			`INSERT INTO tasks (title, description, due_date, priority, status, created_by, assigned_to)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at`,
			t.Title, t.Description, t.DueDate, string(t.Priority), string(t.Status), t.CreatedBy, t.AssignedTo,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &domain.AuditLog{
			UserID:     t.CreatedBy,
			Action:     domain.AuditActionTaskCreate,
			Category:   domain.AuditCategoryTask,
			ResourceID: t.ID,
			Details:    map[string]interface{}{"assigned_to": t.AssignedTo},
		}, nil
	})
}

// Update rewrites the client-editable columns. created_by and status are
// never touched here.
func (r *TaskRepository) Update(ctx context.Context, actorID int64, t *domain.Task) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		err := tx.QueryRow(ctx,
			`UPDATE tasks
			 SET title = $1, description = $2, due_date = $3, priority = $4, assigned_to = $5, updated_at = NOW()
			 WHERE id = $6 AND deleted_at IS NULL
			 RETURNING updated_at`,
			t.Title, t.Description, t.DueDate, string(t.Priority), t.AssignedTo, t.ID,
		).Scan(&t.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		if err != nil {
			return nil, err
		}
		return &domain.AuditLog{
			UserID:     actorID,
			Action:     domain.AuditActionTaskUpdate,
			Category:   domain.AuditCategoryTask,
			ResourceID: t.ID,
			Details:    map[string]interface{}{"assigned_to": t.AssignedTo},
		}, nil
	})
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, actorID, id int64, status domain.TaskStatus) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		tag, err := tx.Exec(ctx,
			`UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
			string(status), id,
		)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrTaskNotFound
		}
		return &domain.AuditLog{
			UserID:     actorID,
			Action:     domain.AuditActionTaskStatus,
			Category:   domain.AuditCategoryTask,
			ResourceID: id,
			Details:    map[string]interface{}{"status": string(status)},
		}, nil
	})
}

// SoftDelete marks the task deleted. Comments and attachments are left in place.
func (r *TaskRepository) SoftDelete(ctx context.Context, actorID, id int64) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		tag, err := tx.Exec(ctx,
			`UPDATE tasks SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrTaskNotFound
		}
		return &domain.AuditLog{
			UserID:     actorID,
			Action:     domain.AuditActionTaskDelete,
			Category:   domain.AuditCategoryTask,
			ResourceID: id,
		}, nil
	})
}
