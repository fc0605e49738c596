package model

import "github.com/shopspring/decimal"

// NoSymbol is the sentinel symbol for unitless quantities. Units carrying it
// render without any suffix.
const NoSymbol = "none"

// Unit is a unit of measurement. Convert is the positive factor mapping one
// unit of this kind to the canonical base unit of its measure, so quantities
// can always be persisted in base units regardless of the unit they were
// entered in.
type Unit struct {
	ID      int64           `json:"id"`
	Symbol  string          `json:"symbol"`
	Plural  string          `json:"plural,omitempty"`
	Code    string          `json:"code,omitempty"`
	Measure Measure         `json:"measure"`
	Convert decimal.Decimal `json:"convert"`
}

// Display returns the preferred standalone display name for the unit.
func (u Unit) Display() string {
	switch {
	case u.Code != "":
		return u.Code
	case u.Plural != "":
		return u.Plural
	case u.Symbol != NoSymbol:
		return u.Symbol
	default:
		return ""
	}
}
