package passwordresets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tickethub/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+password_resets\s*\(token,\s*user_id,\s*expires_at\)`).
		WithArgs("tok-1", "USR-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "USR-1", "tok-1", 30*time.Minute); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestFind_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(30 * time.Minute)
	rows := sqlmock.NewRows([]string{"token", "user_id", "expires_at"}).AddRow("tok-1", "USR-1", expires)
	mock.ExpectQuery(`SELECT\s+token,\s*user_id,\s*expires_at\s+FROM\s+password_resets`).
		WithArgs("tok-1").
		WillReturnRows(rows)

	got, err := repo.Find(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.UserID != "USR-1" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected reset: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+token,.*FROM\s+password_resets`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+password_resets\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
