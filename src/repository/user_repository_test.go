package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"neurocrypt/src/model"
)

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&GormUserRepository{}).WithDB(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users" (`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user := &model.User{Username: "satoshi", Email: "satoshi@example.com", PasswordHash: "hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&GormUserRepository{}).WithDB(db)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(1, "satoshi", "satoshi@example.com", "hash", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("satoshi", 1).
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "satoshi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.Email != "satoshi@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserRepositoryFindByUsernameMissingIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&GormUserRepository{}).WithDB(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("nobody", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("missing user must not be an error, got %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestUserRepositoryFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&GormUserRepository{}).WithDB(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email"}).
		AddRow(4, "vitalik", "v@example.com")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(uint(4), 1).
		WillReturnRows(rows)

	user, err := repo.FindByID(context.Background(), 4)
	if err != nil || user == nil {
		t.Fatalf("expected to find user by id, got %+v err=%v", user, err)
	}
	if user.Username != "vitalik" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
