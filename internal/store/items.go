package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
	"github.com/macph/inventory/internal/quantity"
)

const itemColumns = `i.id, i.user_id, i.name, i.ident, i.unit_id, i.minimum, i.added,
	        u.id, u.symbol, u.plural, u.code, u.measure, u.convert`

// CreateItem creates an item owned by a user. The preferred unit is always
// chosen explicitly; minimum must already be converted to base units. The
// added timestamp is set once here and never updated.
func CreateItem(ctx context.Context, db *sql.DB, userID int64, name string, unitID int64, minimum decimal.Decimal) (*model.Item, error) {
	if name == "" {
		return nil, &model.ValidationError{Field: "name", Message: "name is required"}
	}
	if minimum.IsNegative() {
		return nil, &model.ValidationError{Field: "minimum", Message: "minimum cannot be negative"}
	}
	ident := model.Slugify(name)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM units WHERE id = ?)`, unitID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking unit: %w", err)
	}
	if !exists {
		return nil, &model.ValidationError{Field: "unit", Message: "unit of measurement does not exist"}
	}

	// The slug must be unique as well as the name, check both.
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE user_id = ? AND (name = ? OR ident = ?))`,
		userID, name, ident,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item name: %w", err)
	}
	if exists {
		return nil, &model.ValidationError{Field: "name", Message: "item name already exists"}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (user_id, name, ident, unit_id, minimum, added) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, name, ident, unitID, minimum.String(), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// UpdateItem edits an item's name, preferred unit and minimum threshold.
// The ident is recomputed from the new name, the new unit must measure the
// same quantity as the current one, and the added timestamp never changes.
// Changing the unit is pure metadata: records stay in base units untouched.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name string, unitID int64, minimum decimal.Decimal) (*model.Item, error) {
	if name == "" {
		return nil, &model.ValidationError{Field: "name", Message: "name is required"}
	}
	if minimum.IsNegative() {
		return nil, &model.ValidationError{Field: "minimum", Message: "minimum cannot be negative"}
	}
	ident := model.Slugify(name)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getItemTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("item %d not found", id)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT id, symbol, plural, code, measure, convert FROM units WHERE id = ?`, unitID,
	)
	unit, err := scanUnit(row.Scan)
	if err == sql.ErrNoRows {
		return nil, &model.ValidationError{Field: "unit", Message: "unit of measurement does not exist"}
	}
	if err != nil {
		return nil, fmt.Errorf("getting unit: %w", err)
	}
	if err := quantity.CheckCompatible(*current.Unit, *unit); err != nil {
		return nil, err
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE user_id = ? AND (name = ? OR ident = ?) AND id != ?)`,
		current.UserID, name, ident, id,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item name: %w", err)
	}
	if exists {
		return nil, &model.ValidationError{Field: "name", Message: "item name already exists"}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET name = ?, ident = ?, unit_id = ?, minimum = ? WHERE id = ?`,
		name, ident, unitID, minimum.String(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item with its unit by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItemTx(ctx, db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getItemTx(ctx context.Context, q querier, id int64) (*model.Item, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN units u ON u.id = i.unit_id
		 WHERE i.id = ?`, id,
	)
	item, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByIdent returns a user's item by its slug identifier.
func GetItemByIdent(ctx context.Context, db *sql.DB, userID int64, ident string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN units u ON u.id = i.unit_id
		 WHERE i.user_id = ? AND i.ident = ?`, userID, ident,
	)
	item, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by ident: %w", err)
	}
	return item, nil
}

// ListItems returns a user's items with their units, ordered by name.
func ListItems(ctx context.Context, db *sql.DB, userID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN units u ON u.id = i.unit_id
		 WHERE i.user_id = ? ORDER BY i.name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// DeleteItem removes an item and, through the cascade, all of its records.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

func scanItem(scan func(...any) error) (*model.Item, error) {
	item := &model.Item{Unit: &model.Unit{}}
	var plural, code sql.NullString
	var measure int64
	var minimum, convert string
	err := scan(&item.ID, &item.UserID, &item.Name, &item.Ident, &item.UnitID, &minimum, &item.Added,
		&item.Unit.ID, &item.Unit.Symbol, &plural, &code, &measure, &convert)
	if err != nil {
		return nil, err
	}
	item.Unit.Plural = plural.String
	item.Unit.Code = code.String
	item.Unit.Measure = model.Measure(measure)

	if item.Minimum, err = decimal.NewFromString(minimum); err != nil {
		return nil, fmt.Errorf("parsing minimum: %w", err)
	}
	if item.Unit.Convert, err = decimal.NewFromString(convert); err != nil {
		return nil, fmt.Errorf("parsing conversion factor: %w", err)
	}
	return item, nil
}
