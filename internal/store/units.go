package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
)

// ErrUnitInUse is returned when deleting a unit that items still reference.
var ErrUnitInUse = errors.New("unit of measurement is in use")

// CreateUnit registers a unit of measurement. The symbol must be unique
// (case-insensitively) and the conversion factor positive.
func CreateUnit(ctx context.Context, db *sql.DB, symbol, plural, code string, measure model.Measure, convert decimal.Decimal) (*model.Unit, error) {
	if symbol == "" {
		return nil, &model.ValidationError{Field: "symbol", Message: "symbol is required"}
	}
	if !convert.IsPositive() {
		return nil, &model.ValidationError{Field: "convert", Message: "conversion factor must be greater than zero"}
	}

	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM units WHERE symbol = ?)`, symbol,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking unit symbol: %w", err)
	}
	if exists {
		return nil, &model.ValidationError{Field: "symbol", Message: "unit symbol already exists"}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO units (symbol, plural, code, measure, convert) VALUES (?, ?, ?, ?, ?)`,
		symbol, nullable(plural), nullable(code), int(measure), convert.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating unit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting unit id: %w", err)
	}

	return GetUnit(ctx, db, id)
}

// GetUnit returns a unit by ID.
func GetUnit(ctx context.Context, db *sql.DB, id int64) (*model.Unit, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, symbol, plural, code, measure, convert FROM units WHERE id = ?`, id,
	)
	unit, err := scanUnit(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting unit: %w", err)
	}
	return unit, nil
}

// GetUnitBySymbol returns a unit by its symbol, matched case-insensitively.
func GetUnitBySymbol(ctx context.Context, db *sql.DB, symbol string) (*model.Unit, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, symbol, plural, code, measure, convert FROM units WHERE symbol = ?`, symbol,
	)
	unit, err := scanUnit(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting unit by symbol: %w", err)
	}
	return unit, nil
}

// ListUnits returns all units, optionally restricted to a single measure
// so callers can offer only units compatible with an item.
func ListUnits(ctx context.Context, db *sql.DB, measure *model.Measure) ([]model.Unit, error) {
	var rows *sql.Rows
	var err error

	if measure != nil {
		rows, err = db.QueryContext(ctx,
			`SELECT id, symbol, plural, code, measure, convert FROM units
			 WHERE measure = ? ORDER BY id`, int(*measure),
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, symbol, plural, code, measure, convert FROM units ORDER BY id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		unit, err := scanUnit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		units = append(units, *unit)
	}
	return units, rows.Err()
}

// DeleteUnit removes a unit. Units still referenced by items are protected
// and deletion fails with ErrUnitInUse.
func DeleteUnit(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var used bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE unit_id = ?)`, id,
	).Scan(&used)
	if err != nil {
		return fmt.Errorf("checking unit references: %w", err)
	}
	if used {
		return ErrUnitInUse
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting unit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing unit deletion: %w", err)
	}
	return nil
}

func scanUnit(scan func(...any) error) (*model.Unit, error) {
	u := &model.Unit{}
	var plural, code sql.NullString
	var measure int64
	var convert string
	if err := scan(&u.ID, &u.Symbol, &plural, &code, &measure, &convert); err != nil {
		return nil, err
	}
	u.Plural = plural.String
	u.Code = code.String
	u.Measure = model.Measure(measure)

	var err error
	u.Convert, err = decimal.NewFromString(convert)
	if err != nil {
		return nil, fmt.Errorf("parsing conversion factor: %w", err)
	}
	return u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
