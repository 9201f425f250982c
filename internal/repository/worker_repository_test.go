package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks/rota-api/internal/models"
)

func newWorkerRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWorkerRepositoryList(t *testing.T) {
	db, mock, cleanup := newWorkerRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "roles", "availability"}).
		AddRow(1, "Alice Smith", []byte(`["lifeguard"]`), []byte(`[{"start":"2024-06-03T08:00:00+01:00","end":"2024-06-03T16:00:00+01:00","late":false}]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, roles, availability FROM workers ORDER BY id")).
		WillReturnRows(rows)

	workers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "Alice Smith", workers[0].Name)
	assert.Equal(t, models.RoleList{"lifeguard"}, workers[0].Roles)
	require.Len(t, workers[0].Availability, 1)
	assert.Equal(t, "2024-06-03T08:00:00+01:00", workers[0].Availability[0].Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepositoryFindByName(t *testing.T) {
	db, mock, cleanup := newWorkerRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "roles", "availability"}).
		AddRow(7, "Bob", []byte(`[]`), []byte(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, roles, availability FROM workers WHERE name = $1 LIMIT 1")).
		WithArgs("Bob").
		WillReturnRows(rows)

	worker, err := repo.FindByName(context.Background(), "Bob")
	require.NoError(t, err)
	assert.Equal(t, int64(7), worker.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newWorkerRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	mock.ExpectQuery("INSERT INTO workers").
		WithArgs("Carol", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	worker := &models.Worker{Name: "Carol", Roles: models.RoleList{"host"}, Availability: models.AvailabilityList{}}
	require.NoError(t, repo.Create(context.Background(), worker))
	assert.Equal(t, int64(3), worker.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepositoryReplaceAvailabilityBatch(t *testing.T) {
	db, mock, cleanup := newWorkerRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE workers SET availability").
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE workers SET availability").
		WithArgs(int64(2), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updates := map[int64]models.AvailabilityList{
		2: {{Start: "2024-06-03T09:00:00+01:00", End: "2024-06-03T17:00:00+01:00"}},
		1: {{Start: "2024-06-03T08:00:00+01:00", End: "2024-06-03T16:00:00+01:00"}},
	}
	require.NoError(t, repo.ReplaceAvailabilityBatch(context.Background(), updates))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepositoryReplaceAvailabilityBatchEmpty(t *testing.T) {
	db, mock, cleanup := newWorkerRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	require.NoError(t, repo.ReplaceAvailabilityBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newWorkerRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	mock.ExpectExec("DELETE FROM workers").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), int64(4)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
