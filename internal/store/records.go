package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
)

// MergeWindow is how recent the latest record must be for a new submission
// to overwrite it instead of inserting a new row. It absorbs accidental
// double submissions.
const MergeWindow = time.Minute

// AddRecord stores a quantity observation for an item, already converted to
// base units. When the item's latest record is younger than MergeWindow the
// submission overwrites that record's quantity and timestamp in place.
func AddRecord(ctx context.Context, db *sql.DB, itemID int64, qty decimal.Decimal, note string) (*model.Record, error) {
	return AddRecordAt(ctx, db, itemID, qty, note, time.Now().UTC())
}

// AddRecordAt is AddRecord with an explicit submission time.
func AddRecordAt(ctx context.Context, db *sql.DB, itemID int64, qty decimal.Decimal, note string, added time.Time) (*model.Record, error) {
	if qty.IsNegative() {
		return nil, &model.ValidationError{Field: "quantity", Message: "quantity cannot be negative"}
	}

	// The read-then-write must be one transaction so two near-simultaneous
	// submissions cannot both observe "no recent record" and both insert.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := mergeOrInsert(ctx, tx, itemID, qty, note, added)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing record: %w", err)
	}

	return GetRecord(ctx, db, id)
}

type execQuerier interface {
	querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// mergeOrInsert applies the double-submission policy for one item within
// the caller's transaction and returns the affected record's ID.
func mergeOrInsert(ctx context.Context, tx execQuerier, itemID int64, qty decimal.Decimal, note string, added time.Time) (int64, error) {
	var latestID int64
	var latestAdded time.Time
	err := tx.QueryRowContext(ctx,
		`SELECT id, added FROM records WHERE item_id = ? ORDER BY added DESC, id DESC LIMIT 1`,
		itemID,
	).Scan(&latestID, &latestAdded)

	if err == nil && added.Sub(latestAdded) < MergeWindow {
		_, err = tx.ExecContext(ctx,
			`UPDATE records SET quantity = ?, added = ? WHERE id = ?`,
			qty.String(), added, latestID,
		)
		if err != nil {
			return 0, fmt.Errorf("merging record: %w", err)
		}
		return latestID, nil
	}
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("getting latest record: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO records (item_id, quantity, added, note) VALUES (?, ?, ?, ?)`,
		itemID, qty.String(), added, note,
	)
	if err != nil {
		return 0, fmt.Errorf("creating record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting record id: %w", err)
	}
	return id, nil
}

// GetRecord returns a record by ID.
func GetRecord(ctx context.Context, db *sql.DB, id int64) (*model.Record, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, item_id, quantity, added, note FROM records WHERE id = ?`, id,
	)
	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// ListRecords returns an item's records in ascending time order.
func ListRecords(ctx context.Context, db *sql.DB, itemID int64) ([]model.Record, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, quantity, added, note FROM records
		 WHERE item_id = ? ORDER BY added, id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// LatestRecord returns an item's most recent record, or nil when the item
// has none.
func LatestRecord(ctx context.Context, db *sql.DB, itemID int64) (*model.Record, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, item_id, quantity, added, note FROM records
		 WHERE item_id = ? ORDER BY added DESC, id DESC LIMIT 1`, itemID,
	)
	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest record: %w", err)
	}
	return record, nil
}

func scanRecord(scan func(...any) error) (*model.Record, error) {
	record := &model.Record{}
	var qty string
	if err := scan(&record.ID, &record.ItemID, &qty, &record.Added, &record.Note); err != nil {
		return nil, err
	}

	var err error
	if record.Quantity, err = decimal.NewFromString(qty); err != nil {
		return nil, fmt.Errorf("parsing quantity: %w", err)
	}
	return record, nil
}
