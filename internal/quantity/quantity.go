// Package quantity implements the rounding, formatting and unit conversion
// rules for inventory quantities. All arithmetic is done on exact decimals
// so results are reproducible; binary floats only appear at the outermost
// boundary and are rejected when not finite.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
)

// Places is the number of decimal places quantities are stored with.
const Places = 3

// ErrNotFinite is returned when a value entering the formatter is NaN or
// infinite.
var ErrNotFinite = errors.New("not a finite number")

// tolerance is one unit in the third decimal place. The two-place rounding
// is preferred whenever it lies within this distance of the three-place
// rounding; the exact boundary is fixed and verified against a literal test
// table, not derived.
var tolerance = decimal.New(1, -Places)

// Round rounds to three decimal places, half away from zero, then collapses
// to the two-place rounding when both agree within tolerance. The collapse
// absorbs representation noise that would otherwise surface a spurious
// third decimal.
func Round(value decimal.Decimal) decimal.Decimal {
	r0 := value.Round(Places)
	r1 := value.Round(Places - 1)
	if r1.Sub(r0).Abs().Cmp(tolerance) <= 0 {
		return r1
	}
	return r0
}

// Format renders a quantity with trailing zeros trimmed and the true minus
// glyph in place of a hyphen. When signed is true, non-negative values are
// prefixed with a plus sign.
func Format(value decimal.Decimal, signed bool) string {
	s := Round(value).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "−" + rest
	}
	if signed {
		return "+" + s
	}
	return s
}

// FormatFloat formats a quantity arriving as a binary float. NaN and
// infinities cannot be represented as decimals and fail with ErrNotFinite.
func FormatFloat(value float64, signed bool) (string, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("%w: %v", ErrNotFinite, value)
	}
	return Format(decimal.NewFromFloat(value), signed), nil
}

// ToBase converts a quantity expressed in unit u to the canonical base unit
// of its measure, rounded to storage precision.
func ToBase(q decimal.Decimal, u model.Unit) decimal.Decimal {
	return q.Mul(u.Convert).Round(Places)
}

// FromBase converts a stored base-unit quantity back to unit u.
func FromBase(stored decimal.Decimal, u model.Unit) decimal.Decimal {
	return stored.Div(u.Convert)
}

// Compatible reports whether one unit may be substituted for another.
func Compatible(a, b model.Unit) bool {
	return a.Measure == b.Measure
}

// CheckCompatible fails with a validation error when the units measure
// different physical quantities.
func CheckCompatible(a, b model.Unit) error {
	if !Compatible(a, b) {
		return &model.ValidationError{Field: "unit", Message: "incompatible unit of measurement"}
	}
	return nil
}

// Print renders a stored base-unit quantity in the given unit with a suffix
// chosen by priority: display code, plural form when the quantity is not
// one, pluralised symbol, bare symbol, or nothing for the "none" sentinel.
func Print(stored decimal.Decimal, u model.Unit) string {
	converted := FromBase(stored, u)
	rendered := Format(converted, false)
	one := converted.Equal(decimal.NewFromInt(1))
	switch {
	case u.Code != "":
		return rendered + " " + u.Code
	case !one && u.Plural != "":
		return rendered + " " + u.Plural
	case !one && u.Symbol != model.NoSymbol:
		return rendered + " " + u.Symbol + "s"
	case u.Symbol != model.NoSymbol:
		return rendered + " " + u.Symbol
	default:
		return rendered
	}
}
