package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/macph/inventory/internal/model"
)

// ListPresets returns the suggested food items, ordered by name.
func ListPresets(ctx context.Context, db *sql.DB) ([]model.PresetItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, measure FROM presets ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	defer rows.Close()

	var presets []model.PresetItem
	for rows.Next() {
		var p model.PresetItem
		var measure sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &measure); err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		if measure.Valid {
			m := model.Measure(measure.Int64)
			p.Measure = &m
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}
