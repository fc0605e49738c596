package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/macph/inventory/internal/model"
)

// defaultUnits covers the common household units. Each measure has a base
// unit with a conversion factor of one; "none" is the unitless sentinel.
var defaultUnits = []struct {
	symbol  string
	plural  string
	code    string
	measure model.Measure
	convert string
}{
	{model.NoSymbol, "", "", model.MeasureGeneric, "1"},
	{"loaf", "loaves", "", model.MeasureGeneric, "1"},
	{"dozen", "", "", model.MeasureGeneric, "12"},
	{"cm", "", "cm", model.MeasureLength, "1"},
	{"m", "", "m", model.MeasureLength, "100"},
	{"g", "", "g", model.MeasureMass, "1"},
	{"kg", "", "kg", model.MeasureMass, "1000"},
	{"ml", "", "ml", model.MeasureVolume, "1"},
	{"litre", "litres", "L", model.MeasureVolume, "1000"},
}

// defaultPresets suggests items to get a new user started. A nil measure
// means any kind of unit fits.
var defaultPresets = []struct {
	name    string
	measure *model.Measure
}{
	{"Bread", measure(model.MeasureGeneric)},
	{"Butter", measure(model.MeasureMass)},
	{"Eggs", measure(model.MeasureGeneric)},
	{"Milk", measure(model.MeasureVolume)},
	{"Olive oil", measure(model.MeasureVolume)},
	{"Rice", measure(model.MeasureMass)},
	{"Salt", nil},
}

func measure(m model.Measure) *model.Measure { return &m }

// Seed inserts the default units and preset items. It is idempotent: rows
// already present are left alone.
func Seed(ctx context.Context, db *sql.DB) error {
	for _, u := range defaultUnits {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO units (symbol, plural, code, measure, convert) VALUES (?, ?, ?, ?, ?)`,
			u.symbol, nullable(u.plural), nullable(u.code), int(u.measure), u.convert,
		)
		if err != nil {
			return fmt.Errorf("seeding unit %q: %w", u.symbol, err)
		}
	}

	for _, p := range defaultPresets {
		var m any
		if p.measure != nil {
			m = int(*p.measure)
		}
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO presets (name, measure) VALUES (?, ?)`,
			p.name, m,
		)
		if err != nil {
			return fmt.Errorf("seeding preset %q: %w", p.name, err)
		}
	}

	return nil
}
