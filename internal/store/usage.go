package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/usage"
)

// AverageUse computes the pooled consumption rate (quantity per day) for a
// set of items in one query, keyed by item ID. Items with no defined rate
// are absent from the map, never zero. The fold matches usage.Rate exactly,
// so per-item and bulk results always agree.
func AverageUse(ctx context.Context, db *sql.DB, itemIDs []int64) (map[int64]decimal.Decimal, error) {
	rates := make(map[int64]decimal.Decimal, len(itemIDs))
	if len(itemIDs) == 0 {
		return rates, nil
	}

	placeholders := strings.Repeat("?, ", len(itemIDs)-1) + "?"
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx,
		`SELECT item_id, quantity, added FROM records
		 WHERE item_id IN (`+placeholders+`)
		 ORDER BY item_id, added, id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	current := int64(0)
	var records []usage.Observation
	flush := func() {
		if rate, ok := usage.Rate(records); ok {
			rates[current] = rate
		}
		records = records[:0]
	}

	for rows.Next() {
		var itemID int64
		var obs usage.Observation
		var qty string
		if err := rows.Scan(&itemID, &qty, &obs.Added); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if obs.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("parsing quantity: %w", err)
		}

		if itemID != current {
			flush()
			current = itemID
		}
		records = append(records, obs)
	}
	flush()

	return rates, rows.Err()
}
