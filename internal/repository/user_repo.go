package repository

import (
	"context"
	"errors"
	"strings"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	db    *pgxpool.Pool
	audit *AuditRepository
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db, audit: NewAuditRepository(db)}
}

const userColumns = `id, name, email, avatar, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

// Create inserts the user and its registration audit row.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (name, email, avatar, password_hash)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			u.Name, u.Email, u.Avatar, u.PasswordHash,
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &domain.AuditLog{
			UserID:     u.ID,
			Action:     domain.AuditActionRegister,
			Category:   domain.AuditCategoryAuth,
			ResourceID: u.ID,
		}, nil
	})
	return mapUniqueEmail(err)
}

// UpdateProfile persists name, email and avatar.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	err := inTx(ctx, r.db, r.audit, func(tx pgx.Tx) (*domain.AuditLog, error) {
		err := tx.QueryRow(ctx,
			`UPDATE users SET name = $1, email = $2, avatar = $3, updated_at = NOW()
			 WHERE id = $4
			 RETURNING updated_at`,
			u.Name, u.Email, u.Avatar, u.ID,
		).Scan(&u.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if err != nil {
			return nil, err
		}
		return &domain.AuditLog{
			UserID:     u.ID,
			Action:     domain.AuditActionProfileUpdate,
			Category:   domain.AuditCategoryUser,
			ResourceID: u.ID,
		}, nil
	})
	return mapUniqueEmail(err)
}

// Search pages through users whose name or email contains search.
func (r *UserRepository) Search(ctx context.Context, search string, page domain.PageRequest) (domain.Page[domain.User], error) {
	result := domain.Page[domain.User]{Number: page.Number, PerPage: page.Size}

	pattern := "%" + escapeLike(strings.TrimSpace(search)) + "%"
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE name ILIKE $1 OR email ILIKE $1`, pattern,
	).Scan(&result.Total); err != nil {
		return result, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE name ILIKE $1 OR email ILIKE $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		pattern, page.Size, page.Offset(),
	)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	result.Items = make([]domain.User, 0, page.Size)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *u)
	}
	return result, rows.Err()
}

func mapUniqueEmail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
