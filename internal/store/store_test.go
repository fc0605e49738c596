package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/db"
	"github.com/macph/inventory/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testUser(t *testing.T, database *sql.DB) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), database, "alice", "correct horse")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func testUnit(t *testing.T, database *sql.DB, symbol, plural, code string, m model.Measure, convert string) *model.Unit {
	t.Helper()
	unit, err := CreateUnit(context.Background(), database, symbol, plural, code, m, dec(convert))
	if err != nil {
		t.Fatalf("CreateUnit(%s): %v", symbol, err)
	}
	return unit
}

func testItem(t *testing.T, database *sql.DB, userID int64, name string, unitID int64) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, userID, name, unitID, decimal.Zero)
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return item
}

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	database := db.NewTestDB(t)
	if err := Seed(context.Background(), database); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return database
}
