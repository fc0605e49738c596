package store

import (
	"context"
	"testing"

	"github.com/macph/inventory/internal/model"
)

func TestSeedDefaults(t *testing.T) {
	database := seededDB(t)
	ctx := context.Background()

	unit, err := GetUnitBySymbol(ctx, database, "kg")
	if err != nil {
		t.Fatalf("GetUnitBySymbol: %v", err)
	}
	if unit == nil {
		t.Fatal("expected kg to be seeded")
	}
	if unit.Measure != model.MeasureMass || !unit.Convert.Equal(dec("1000")) {
		t.Errorf("expected kg as mass ×1000, got %+v", unit)
	}

	presets, err := ListPresets(ctx, database)
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	if len(presets) == 0 {
		t.Fatal("expected seeded presets")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	database := seededDB(t)
	ctx := context.Background()

	before, _ := ListUnits(ctx, database, nil)
	if err := Seed(ctx, database); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	after, _ := ListUnits(ctx, database, nil)

	if len(before) != len(after) {
		t.Errorf("expected unit count to stay %d, got %d", len(before), len(after))
	}
}
