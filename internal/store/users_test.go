package store

import (
	"context"
	"errors"
	"testing"

	"github.com/macph/inventory/internal/db"
	"github.com/macph/inventory/internal/model"
)

func TestCreateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "alice", "correct horse")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("expected password to be hashed")
	}

	if !VerifyPassword(user, "correct horse") {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword(user, "wrong horse") {
		t.Error("expected wrong password to fail")
	}
}

func TestCreateUserValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "", "correct horse"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := CreateUser(ctx, database, "alice", "short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	testUser(t, database)

	// Usernames are case-insensitive.
	_, err := CreateUser(ctx, database, "Alice", "another pass")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for duplicate username, got %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created := testUser(t, database)

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("expected user %d, got %+v", created.ID, user)
	}

	missing, err := GetUserByUsername(ctx, database, "nobody")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown username, got %+v", missing)
	}
}
