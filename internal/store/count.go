package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
)

// CountSubmission is a whole-inventory count: submitted quantities in base
// units keyed by item ident, with a note shared by every new record. Items
// without an entry are left untouched.
type CountSubmission struct {
	Values map[string]decimal.Decimal
	Note   string
}

// SubmitCount applies an inventory count for a user. Every value is
// validated before anything is written; each counted item then gets the
// same double-submission merge policy as a single record. Idents that no
// longer match an item are ignored, since the item list may have changed
// between viewing and submitting the count.
func SubmitCount(ctx context.Context, db *sql.DB, userID int64, sub CountSubmission) ([]model.Record, error) {
	return SubmitCountAt(ctx, db, userID, sub, time.Now().UTC())
}

// SubmitCountAt is SubmitCount with an explicit submission time.
func SubmitCountAt(ctx context.Context, db *sql.DB, userID int64, sub CountSubmission, added time.Time) ([]model.Record, error) {
	for ident, qty := range sub.Values {
		if qty.IsNegative() {
			return nil, &model.ValidationError{Field: ident, Message: "quantity cannot be negative"}
		}
	}

	items, err := ListItems(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var ids []int64
	for _, item := range items {
		qty, ok := sub.Values[item.Ident]
		if !ok {
			continue
		}
		id, err := mergeOrInsert(ctx, tx, item.ID, qty, sub.Note, added)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing count: %w", err)
	}

	records := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		record, err := GetRecord(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}
