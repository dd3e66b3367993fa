package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lanning/taskstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockStore builds a TaskStore over sqlmock for exercising driver
// failure paths that an in-memory database cannot produce.
func newMockStore(t *testing.T) (*TaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTaskStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetByIDMapsNoRowsToNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, title").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDWrapsDriverError(t *testing.T) {
	s, mock := newMockStore(t)

	driverErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT id, title").
		WithArgs(int64(7)).
		WillReturnError(driverErr)

	_, err := s.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, driverErr)
	assert.False(t, store.IsNotFoundError(err))
}

func TestListWrapsDriverError(t *testing.T) {
	s, mock := newMockStore(t)

	driverErr := errors.New("database is locked")
	mock.ExpectQuery("SELECT id, title").WillReturnError(driverErr)

	_, err := s.List(context.Background(), store.ListFilter{})
	assert.ErrorIs(t, err, driverErr)
}

func TestCreateWrapsInsertError(t *testing.T) {
	s, mock := newMockStore(t)

	driverErr := errors.New("table tasks has no column named title")
	mock.ExpectExec("INSERT INTO tasks").WillReturnError(driverErr)

	_, err := s.Create(context.Background(), store.CreateTaskInput{Title: "X"})
	assert.ErrorIs(t, err, driverErr)
	assert.False(t, store.IsNotFoundError(err))
}
