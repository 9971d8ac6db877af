package repository

import (
	"context"
	"errors"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db    *pgxpool.Pool
	audit *AuditRepository
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db, audit: NewAuditRepository(db)}
}

const commentSelect = `
SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, c.updated_at,
       u.id, u.name, u.email, u.avatar, u.created_at, u.updated_at
FROM task_comments c
JOIN users u ON u.id = c.user_id
`

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var (
		c      domain.Comment
		author domain.User
	)
	err := row.Scan(
		&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&author.ID, &author.Name, &author.Email, &author.Avatar, &author.CreatedAt, &author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	c.Author = &author
	return &c, nil
}

func scanComments(rows pgx.Rows, capacity int) ([]domain.Comment, error) {
	defer rows.Close()

	comments := make([]domain.Comment, 0, capacity)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// ListByTask pages through a task's comments, newest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID int64, page domain.PageRequest) (domain.Page[domain.Comment], error) {
	result := domain.Page[domain.Comment]{Number: page.Number, PerPage: page.Size}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_comments WHERE task_id = $1`, taskID,
	).Scan(&result.Total); err != nil {
		return result, err
	}

	rows, err := r.db.Query(ctx,
		commentSelect+` WHERE c.task_id = $1 ORDER BY c.created_at DESC, c.id DESC LIMIT $2 OFFSET $3`,
		taskID, page.Size, page.Offset(),
	)
	if err != nil {
		return result, err
	}
	result.Items, err = scanComments(rows, page.Size)
	return result, err
}

// ListAllByTask returns every comment of a task, newest first.
func (r *CommentRepository) ListAllByTask(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		commentSelect+` WHERE c.task_id = $1 ORDER BY c.created_at DESC, c.id DESC`, taskID)
	if err != nil {
		return nil, err
	}
	return scanComments(rows, 0)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		err := tx.QueryRow(ctx,
			`INSERT INTO task_comments (task_id, user_id, content)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at, updated_at`,
			c.TaskID, c.UserID, c.Content,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &domain.AuditLog{
			UserID:     c.UserID,
			Action:     domain.AuditActionCommentCreate,
			Category:   domain.AuditCategoryComment,
			ResourceID: c.ID,
			Details:    map[string]interface{}{"task_id": c.TaskID},
		}, nil
	})
}

func (r *CommentRepository) UpdateContent(ctx context.Context, actorID, id int64, content string) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		tag, err := tx.Exec(ctx,
			`UPDATE task_comments SET content = $1, updated_at = NOW() WHERE id = $2`, content, id)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrCommentNotFound
		}
		return &domain.AuditLog{
			UserID:     actorID,
			Action:     domain.AuditActionCommentUpdate,
			Category:   domain.AuditCategoryComment,
			ResourceID: id,
		}, nil
	})
}

// Delete removes the comment row for good.
func (r *CommentRepository) Delete(ctx context.Context, actorID, id int64) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		tag, err := tx.Exec(ctx, `DELETE FROM task_comments WHERE id = $1`, id)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrCommentNotFound
		}
		return &domain.AuditLog{
			UserID:     actorID,
			Action:     domain.AuditActionCommentDelete,
			Category:   domain.AuditCategoryComment,
			ResourceID: id,
		}, nil
	})
}
