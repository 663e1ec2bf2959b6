package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func setupKVMock(t *testing.T) (*PostgresKV, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	kv := NewPostgresKV(db)
	cleanup := func() { db.Close() }
	return kv, mock, cleanup
}

func TestGet_ReturnsPresentKeys(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	keys := []string{"authToken", "refreshToken"}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM extension_storage WHERE key = ANY($1)`)).
		WithArgs(pq.Array(keys)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("authToken", "tok"))

	got, err := kv.Get(context.Background(), keys...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["authToken"] != "tok" {
		t.Errorf("authToken = %q; want %q", got["authToken"], "tok")
	}
	if _, ok := got["refreshToken"]; ok {
		t.Errorf("refreshToken must be absent, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGet_QueryError(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM extension_storage`)).
		WillReturnError(errors.New("query failed"))

	if _, err := kv.Get(context.Background(), "authToken"); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO extension_storage (key, value)`)).
		WithArgs("authToken", "tok").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := kv.Set(context.Background(), map[string]string{"authToken": "tok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSet_ExecErrorRollsBack(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO extension_storage (key, value)`)).
		WithArgs("authToken", "tok").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	if err := kv.Set(context.Background(), map[string]string{"authToken": "tok"}); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRemove(t *testing.T) {
	kv, mock, cleanup := setupKVMock(t)
	defer cleanup()

	keys := []string{"authToken", "refreshToken", "userInfo"}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM extension_storage WHERE key = ANY($1)`)).
		WithArgs(pq.Array(keys)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := kv.Remove(context.Background(), keys...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
