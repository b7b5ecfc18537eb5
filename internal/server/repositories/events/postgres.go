package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tickethub/internal/common"
	"github.com/dmitrijs2005/tickethub/internal/dbx"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// PostgresRepository implements event index storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert delegates ID generation and row insertion to the stored procedure.
func (r *PostgresRepository) Insert(ctx context.Context, row *models.EventRow) (string, error) {
	query := `
		SELECT sp_add_main_event($1, $2, $3, $4, $5, $6)
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		row.UserID, row.CategoryID, row.Title, row.StartsAt, row.Location, row.DetailID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// SelectFutureAgenda reads the agenda view; "future" filtering and the
// category-name join are encapsulated there.
func (r *PostgresRepository) SelectFutureAgenda(ctx context.Context, userID string) ([]*models.EventRow, error) {
	query := `
		SELECT id, user_id, category_id, category_name, title, starts_at, location, detail_id
		FROM vw_user_future_agenda
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.EventRow
	for rows.Next() {
		item, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectOne matches by both event ID and owner; ownership is part of the
// predicate, so a wrong owner and a missing row are indistinguishable.
func (r *PostgresRepository) SelectOne(ctx context.Context, eventID string, userID string) (*models.EventRow, error) {
	query := `
		SELECT e.id, e.user_id, e.category_id, c.name AS category_name, e.title, e.starts_at, e.location, e.detail_id
		FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1 AND e.user_id = $2
	`
	row := &models.EventRow{}
	var detailID sql.NullString
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&row.ID, &row.UserID, &row.CategoryID, &row.CategoryName,
		&row.Title, &row.StartsAt, &row.Location, &detailID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	row.DetailID = detailID.String
	return row, nil
}

// FindDetailRef is the authorization gate for update/delete: it resolves
// the document reference only when (eventID, userID) matches a row.
func (r *PostgresRepository) FindDetailRef(ctx context.Context, eventID string, userID string) (string, error) {
	query := `
		SELECT detail_id FROM events
		WHERE id = $1 AND user_id = $2
	`
	var detailID sql.NullString
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&detailID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return detailID.String, nil
}

// Update rewrites the mutable columns of an event row.
func (r *PostgresRepository) Update(ctx context.Context, eventID string, input *models.EventInput) error {
	query := `
		UPDATE events
		SET title = $2, category_id = $3, starts_at = $4, location = $5
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, eventID, input.Title, input.CategoryID, input.StartsAt, input.Location); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes an event row by ID.
func (r *PostgresRepository) Delete(ctx context.Context, eventID string) error {
	query := `
		DELETE FROM events
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventRow(rs rowScanner) (*models.EventRow, error) {
	row := &models.EventRow{}
	var detailID sql.NullString
	if err := rs.Scan(
		&row.ID, &row.UserID, &row.CategoryID, &row.CategoryName,
		&row.Title, &row.StartsAt, &row.Location, &detailID,
	); err != nil {
		return nil, err
	}
	row.DetailID = detailID.String
	return row, nil
}
