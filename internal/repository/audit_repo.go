package repository

import (
	"context"
	"encoding/json"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

const insertAuditLog = `
	INSERT INTO audit_logs (user_id, action, category, resource_id, details)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
`

// Create inserts an audit log entry outside of any business transaction
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.db.QueryRow(ctx, insertAuditLog,
		log.UserID, log.Action, log.Category, log.ResourceID, detailsJSON(log.Details),
	).Scan(&log.ID, &log.CreatedAt)
}

// CreateWithTx inserts a new audit log entry within a transaction
func (r *AuditRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, log *domain.AuditLog) error {
	return tx.QueryRow(ctx, insertAuditLog,
		log.UserID, log.Action, log.Category, log.ResourceID, detailsJSON(log.Details),
	).Scan(&log.ID, &log.CreatedAt)
}

// GetByUserID returns audit logs for a user
func (r *AuditRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, action, category, resource_id, details, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var details []byte
		if err := rows.Scan(&log.ID, &log.UserID, &log.Action, &log.Category, &log.ResourceID, &details, &log.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &log.Details); err != nil {
			log.Details = make(map[string]interface{})
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

func detailsJSON(details map[string]interface{}) []byte {
	b, err := json.Marshal(details)
	if err != nil || details == nil {
		return []byte("{}")
	}
	return b
}

// inTx runs fn inside a transaction and writes the audit row built by fn
// before committing. Nothing is committed if fn or the audit insert fails.
func inTx(ctx context.Context, db *pgxpool.Pool, audit *AuditRepository, fn func(tx pgx.Tx) (*domain.AuditLog, error)) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	log, err := fn(tx)
	if err != nil {
		return err
	}
	if log != nil {
		if err := audit.CreateWithTx(ctx, tx, log); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
