package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newNavigationRepoWithMock(t *testing.T) (*NavigationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewNavigationRepository(db), mock, func() { _ = db.Close() }
}

func TestNavigationLoadReturnsEntries(t *testing.T) {
	repo, mock, done := newNavigationRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"storage_key", "value"}).
		AddRow("framework-dashboard-tab", "1").
		AddRow("iso42001-active-tab", "annexes")
	mock.ExpectQuery("FROM navigation_state").
		WithArgs("u-1").
		WillReturnRows(rows)

	entries, err := repo.Load(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if entries["framework-dashboard-tab"] != "1" || entries["iso42001-active-tab"] != "annexes" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNavigationSaveUpsertsSortedKeysInTransaction(t *testing.T) {
	repo, mock, done := newNavigationRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO navigation_state").
		WithArgs("u-1", "framework-dashboard-tab", "2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO navigation_state").
		WithArgs("u-1", "nist-ai-rmf-active-tab", "map", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), "u-1", map[string]string{
		"nist-ai-rmf-active-tab":  "map",
		"framework-dashboard-tab": "2",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNavigationSaveRollsBackOnFailure(t *testing.T) {
	repo, mock, done := newNavigationRepoWithMock(t)
	defer done()

	errWrite := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO navigation_state").
		WithArgs("u-1", "framework-dashboard-tab", "0", sqlmock.AnyArg()).
		WillReturnError(errWrite)
	mock.ExpectRollback()

	err := repo.Save(context.Background(), "u-1", map[string]string{"framework-dashboard-tab": "0"})
	if !errors.Is(err, errWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNavigationEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newNavigationRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(int64(2026101601)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS navigation_state").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPoolOptionsDefaults(t *testing.T) {
	got := PoolOptions{MaxOpenConns: 3, MaxIdleConns: 9}.withDefaults()
	if got.MaxOpenConns != 3 || got.MaxIdleConns != 3 {
		t.Fatalf("idle connections must not exceed open connections: %+v", got)
	}
	if got.ConnMaxLifetime <= 0 || got.PingTimeout <= 0 {
		t.Fatalf("expected positive durations: %+v", got)
	}
}
