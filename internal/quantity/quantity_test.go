package quantity

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", s, err)
	}
	return d
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value  string
		plain  string
		signed string
	}{
		{"0.000", "0", "+0"},
		{"1.000", "1", "+1"},
		{"100.000", "100", "+100"},
		{"1.234", "1.234", "+1.234"},
		{"-1.234", "−1.234", "−1.234"},
		{"1.2345", "1.235", "+1.235"},
		{"1.231", "1.23", "+1.23"},
		{"1.239", "1.24", "+1.24"},
		{"-1.999", "−2", "−2"},
		{"-1.001", "−1", "−1"},
		{"1.001", "1", "+1"},
		{"1.999", "2", "+2"},
	}

	for _, tt := range tests {
		if got := Format(dec(t, tt.value), false); got != tt.plain {
			t.Errorf("Format(%s, false) = %q, want %q", tt.value, got, tt.plain)
		}
		if got := Format(dec(t, tt.value), true); got != tt.signed {
			t.Errorf("Format(%s, true) = %q, want %q", tt.value, got, tt.signed)
		}
	}
}

func TestFormatFloatNotFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FormatFloat(v, false); !errors.Is(err, ErrNotFinite) {
			t.Errorf("FormatFloat(%v) error = %v, want ErrNotFinite", v, err)
		}
	}
}

func TestFormatFloatFinite(t *testing.T) {
	got, err := FormatFloat(1.2345, false)
	if err != nil {
		t.Fatalf("FormatFloat: %v", err)
	}
	if got != "1.235" {
		t.Errorf("FormatFloat(1.2345) = %q, want %q", got, "1.235")
	}
}

func TestConvertRoundTrip(t *testing.T) {
	kg := model.Unit{Symbol: "kg", Measure: model.MeasureMass, Convert: dec(t, "1000")}
	tests := []string{"0", "0.5", "1", "1.234", "42", "0.001"}

	for _, q := range tests {
		in := dec(t, q)
		out := FromBase(ToBase(in, kg), kg)
		if !out.Equal(in) {
			t.Errorf("round-trip %s through kg = %s", q, out)
		}
	}
}

func TestToBaseRounds(t *testing.T) {
	// One third of a dozen rounds half-up at the third decimal.
	dozen := model.Unit{Symbol: "dozen", Measure: model.MeasureGeneric, Convert: dec(t, "12")}
	got := ToBase(dec(t, "0.33333"), dozen)
	if want := dec(t, "4"); !got.Equal(want) {
		t.Errorf("ToBase(0.33333, dozen) = %s, want %s", got, want)
	}
}

func TestCheckCompatible(t *testing.T) {
	cm := model.Unit{Symbol: "cm", Measure: model.MeasureLength, Convert: dec(t, "1")}
	g := model.Unit{Symbol: "g", Measure: model.MeasureMass, Convert: dec(t, "1")}
	kg := model.Unit{Symbol: "kg", Measure: model.MeasureMass, Convert: dec(t, "1000")}

	if err := CheckCompatible(g, kg); err != nil {
		t.Errorf("g/kg should be compatible: %v", err)
	}

	err := CheckCompatible(cm, g)
	if err == nil {
		t.Fatal("expected error for length/mass substitution")
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "unit" {
		t.Errorf("expected field 'unit', got %q", verr.Field)
	}
}

func TestPrint(t *testing.T) {
	one := dec(t, "1")
	tests := []struct {
		name     string
		stored   string
		unit     model.Unit
		expected string
	}{
		{
			"code wins",
			"2000",
			model.Unit{Symbol: "litre", Plural: "litres", Code: "L", Measure: model.MeasureVolume, Convert: dec(t, "1000")},
			"2 L",
		},
		{
			"plural when not one",
			"2",
			model.Unit{Symbol: "loaf", Plural: "loaves", Convert: one},
			"2 loaves",
		},
		{
			"singular symbol at one",
			"1",
			model.Unit{Symbol: "loaf", Plural: "loaves", Convert: one},
			"1 loaf",
		},
		{
			"pluralised symbol",
			"3",
			model.Unit{Symbol: "egg", Convert: one},
			"3 eggs",
		},
		{
			"bare symbol at one",
			"1",
			model.Unit{Symbol: "egg", Convert: one},
			"1 egg",
		},
		{
			"none sentinel has no suffix",
			"4",
			model.Unit{Symbol: model.NoSymbol, Convert: one},
			"4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(dec(t, tt.stored), tt.unit); got != tt.expected {
				t.Errorf("Print(%s, %s) = %q, want %q", tt.stored, tt.unit.Symbol, got, tt.expected)
			}
		})
	}
}
