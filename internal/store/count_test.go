package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/db"
	"github.com/macph/inventory/internal/model"
)

func TestSubmitCount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := testUser(t, database)
	unit := testUnit(t, database, model.NoSymbol, "", "", model.MeasureGeneric, "1")
	testItem(t, database, user.ID, "Bread", unit.ID)
	testItem(t, database, user.ID, "Eggs", unit.ID)
	testItem(t, database, user.ID, "Milk", unit.ID)

	records, err := SubmitCount(ctx, database, user.ID, CountSubmission{
		Values: map[string]decimal.Decimal{
			"bread": dec("1"),
			"eggs":  dec("6"),
		},
		Note: "friday count",
	})
	if err != nil {
		t.Fatalf("SubmitCount: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.Note != "friday count" {
			t.Errorf("expected shared note on record %d, got %q", r.ID, r.Note)
		}
	}

	// Milk had no entry and must be untouched.
	milk, _ := GetItemByIdent(ctx, database, user.ID, "milk")
	latest, _ := LatestRecord(ctx, database, milk.ID)
	if latest != nil {
		t.Errorf("expected no record for uncounted item, got %+v", latest)
	}
}

func TestSubmitCountValidatesBeforeWriting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := testUser(t, database)
	unit := testUnit(t, database, model.NoSymbol, "", "", model.MeasureGeneric, "1")
	bread := testItem(t, database, user.ID, "Bread", unit.ID)

	_, err := SubmitCount(ctx, database, user.ID, CountSubmission{
		Values: map[string]decimal.Decimal{
			"bread": dec("1"),
			"eggs":  dec("-6"),
		},
	})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}

	// Nothing is written when any value is invalid.
	latest, _ := LatestRecord(ctx, database, bread.ID)
	if latest != nil {
		t.Errorf("expected no records after failed count, got %+v", latest)
	}
}

func TestSubmitCountIgnoresUnknownIdents(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := testUser(t, database)
	unit := testUnit(t, database, model.NoSymbol, "", "", model.MeasureGeneric, "1")
	testItem(t, database, user.ID, "Bread", unit.ID)

	records, err := SubmitCount(ctx, database, user.ID, CountSubmission{
		Values: map[string]decimal.Decimal{
			"bread":   dec("2"),
			"deleted": dec("5"),
		},
	})
	if err != nil {
		t.Fatalf("SubmitCount: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestSubmitCountMergesRecentRecords(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := testUser(t, database)
	unit := testUnit(t, database, model.NoSymbol, "", "", model.MeasureGeneric, "1")
	item := testItem(t, database, user.ID, "Bread", unit.ID)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	first, _ := AddRecordAt(ctx, database, item.ID, dec("2"), "", base)

	// A count resubmitted within the merge window overwrites the record.
	records, err := SubmitCountAt(ctx, database, user.ID, CountSubmission{
		Values: map[string]decimal.Decimal{"bread": dec("1")},
	}, base.Add(20*time.Second))
	if err != nil {
		t.Fatalf("SubmitCountAt: %v", err)
	}
	if len(records) != 1 || records[0].ID != first.ID {
		t.Fatalf("expected count to merge into record %d, got %+v", first.ID, records)
	}
	if !records[0].Quantity.Equal(dec("1")) {
		t.Errorf("expected quantity 1 after merge, got %s", records[0].Quantity)
	}
}
