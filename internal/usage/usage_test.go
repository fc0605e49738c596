package usage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var base = time.Date(2020, time.April, 1, 12, 0, 0, 0, time.UTC)

// observations builds one record per day from the given quantities.
func observations(t *testing.T, quantities ...string) []Observation {
	t.Helper()
	records := make([]Observation, len(quantities))
	for i, q := range quantities {
		d, err := decimal.NewFromString(q)
		if err != nil {
			t.Fatalf("parsing quantity %q: %v", q, err)
		}
		records[i] = Observation{Quantity: d, Added: base.AddDate(0, 0, i)}
	}
	return records
}

func TestRatePoolsDropsOnly(t *testing.T) {
	// The restock from 3 to 13 contributes nothing; the drops 3, 4 and 10
	// are pooled over the full four days.
	records := observations(t, "10", "7", "3", "13", "3")

	rate, ok := Rate(records)
	if !ok {
		t.Fatal("expected a defined rate")
	}
	if want := decimal.NewFromFloat(4.25); !rate.Equal(want) {
		t.Errorf("rate = %s, want %s", rate, want)
	}
}

func TestRateWeighsByElapsedTime(t *testing.T) {
	// A 6 drop over two days and a 2 drop over one day pool to 8 over three
	// days, not the mean of the per-interval rates.
	records := []Observation{
		{Quantity: decimal.NewFromInt(10), Added: base},
		{Quantity: decimal.NewFromInt(4), Added: base.AddDate(0, 0, 2)},
		{Quantity: decimal.NewFromInt(2), Added: base.AddDate(0, 0, 3)},
	}

	rate, ok := Rate(records)
	if !ok {
		t.Fatal("expected a defined rate")
	}
	want := decimal.NewFromInt(8).Div(decimal.NewFromInt(3))
	if !rate.Equal(want) {
		t.Errorf("rate = %s, want %s", rate, want)
	}
}

func TestRateUndefined(t *testing.T) {
	tests := []struct {
		name    string
		records []Observation
	}{
		{"no records", nil},
		{"single record", observations(t, "10")},
		{"only restocks", observations(t, "1", "5", "9")},
		{"constant quantity", observations(t, "4", "4", "4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rate, ok := Rate(tt.records); ok {
				t.Errorf("expected undefined rate, got %s", rate)
			}
		})
	}
}

func TestExpectedEnd(t *testing.T) {
	latest := Observation{Quantity: decimal.NewFromInt(6), Added: base}
	rate := decimal.NewFromInt(2) // per day

	end, ok := ExpectedEnd(latest, rate)
	if !ok {
		t.Fatal("expected a defined projection")
	}
	if want := base.AddDate(0, 0, 3); !end.Equal(want) {
		t.Errorf("expected end = %v, want %v", end, want)
	}
}

func TestExpectedEndUndefined(t *testing.T) {
	rate := decimal.NewFromInt(2)

	// Zero latest quantity: already out of stock, nothing to project.
	if _, ok := ExpectedEnd(Observation{Quantity: decimal.Zero, Added: base}, rate); ok {
		t.Error("expected undefined projection for zero quantity")
	}

	// Undefined rate arrives as the zero value.
	if _, ok := ExpectedEnd(Observation{Quantity: decimal.NewFromInt(5), Added: base}, decimal.Decimal{}); ok {
		t.Error("expected undefined projection without a rate")
	}
}
