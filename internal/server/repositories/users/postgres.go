package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tickethub/internal/common"
	"github.com/dmitrijs2005/tickethub/internal/dbx"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// PostgresRepository implements user storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a user, delegating ID generation to the relational function.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query := `
		INSERT INTO users (id, group_id, email, password_hash, full_name)
		VALUES (fn_generate_user_id(), $1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.GroupID, user.Email, user.PasswordHash, user.FullName).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, group_id, email, password_hash, full_name, created_at FROM users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, group_id, email, password_hash, full_name, created_at FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile rewrites the mutable profile columns.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, email string, fullName string) error {
	query := `
		UPDATE users SET email = $2, full_name = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, email, fullName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.oneRowAffected(res)
}

// UpdatePasswordHash replaces the stored password digest.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.oneRowAffected(res)
}

// Search matches term case-insensitively against email or full name.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]*models.User, error) {
	query := `
		SELECT id, group_id, email, password_hash, full_name, created_at FROM users
		WHERE email ILIKE $1 OR full_name ILIKE $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(
			&item.ID, &item.GroupID, &item.Email, &item.PasswordHash, &item.FullName, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a user by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.oneRowAffected(res)
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.GroupID, &user.Email, &user.PasswordHash, &user.FullName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
