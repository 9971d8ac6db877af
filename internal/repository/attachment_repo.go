package repository

import (
	"context"
	"errors"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttachmentRepository struct {
	db    *pgxpool.Pool
	audit *AuditRepository
}

func NewAttachmentRepository(db *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{db: db, audit: NewAuditRepository(db)}
}

const attachmentSelect = `
SELECT a.id, a.task_id, a.user_id, a.filename, a.original_filename, a.mime_type, a.size, a.checksum,
       a.created_at, a.updated_at,
       u.id, u.name, u.email, u.avatar, u.created_at, u.updated_at
FROM task_attachments a
JOIN users u ON u.id = a.user_id
`

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var (
		a        domain.Attachment
		uploader domain.User
	)
	err := row.Scan(
		&a.ID, &a.TaskID, &a.UserID, &a.Filename, &a.OriginalFilename, &a.MimeType, &a.Size, &a.Checksum,
		&a.CreatedAt, &a.UpdatedAt,
		&uploader.ID, &uploader.Name, &uploader.Email, &uploader.Avatar, &uploader.CreatedAt, &uploader.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	a.Uploader = &uploader
	return &a, nil
}

func scanAttachments(rows pgx.Rows, capacity int) ([]domain.Attachment, error) {
	defer rows.Close()

	attachments := make([]domain.Attachment, 0, capacity)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, *a)
	}
	return attachments, rows.Err()
}

// ListByTask pages through a task's live attachments, newest first.
func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID int64, page domain.PageRequest) (domain.Page[domain.Attachment], error) {
	result := domain.Page[domain.Attachment]{Number: page.Number, PerPage: page.Size}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_attachments WHERE task_id = $1 AND deleted_at IS NULL`, taskID,
	).Scan(&result.Total); err != nil {
		return result, err
	}

	rows, err := r.db.Query(ctx,
		attachmentSelect+` WHERE a.task_id = $1 AND a.deleted_at IS NULL
		 ORDER BY a.created_at DESC, a.id DESC LIMIT $2 OFFSET $3`,
		taskID, page.Size, page.Offset(),
	)
	if err != nil {
		return result, err
	}
	result.Items, err = scanAttachments(rows, page.Size)
	return result, err
}

// ListAllByTask returns every live attachment of a task, newest first.
func (r *AttachmentRepository) ListAllByTask(ctx context.Context, taskID int64) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx,
		attachmentSelect+` WHERE a.task_id = $1 AND a.deleted_at IS NULL ORDER BY a.created_at DESC, a.id DESC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	return scanAttachments(rows, 0)
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	return scanAttachment(r.db.QueryRow(ctx, attachmentSelect+` WHERE a.id = $1 AND a.deleted_at IS NULL`, id))
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		err := tx.QueryRow(ctx,
			`INSERT INTO task_attachments (task_id, user_id, filename, original_filename, mime_type, size, checksum)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at`,
			a.TaskID, a.UserID, a.Filename, a.OriginalFilename, a.MimeType, a.Size, a.Checksum,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &domain.AuditLog{
			UserID:     a.UserID,
			Action:     domain.AuditActionAttachmentCreate,
			Category:   domain.AuditCategoryAttachment,
			ResourceID: a.ID,
			Details: map[string]interface{}{
				"task_id": a.TaskID,
				"size":    a.Size,
			},
		}, nil
	})
}

// SoftDelete hides the attachment from listings and lookups.
func (r *AttachmentRepository) SoftDelete(ctx context.Context, actorID, id int64) error {
	return inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		tag, err := tx.Exec(ctx,
			`UPDATE task_attachments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrAttachmentNotFound
		}
		return &domain.AuditLog{
			UserID:     actorID,
			Action:     domain.AuditActionAttachmentDelete,
			Category:   domain.AuditCategoryAttachment,
			ResourceID: id,
		}, nil
	})
}
