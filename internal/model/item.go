package model

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Item is a tracked product. Minimum is the low-stock threshold in base
// units. Ident is always the slug of the current name and is unique per
// user; it is recomputed whenever the name changes. Added is set once at
// creation and never updated.
type Item struct {
	ID      int64           `json:"id"`
	UserID  int64           `json:"user_id"`
	Name    string          `json:"name"`
	Ident   string          `json:"ident"`
	UnitID  int64           `json:"unit_id"`
	Minimum decimal.Decimal `json:"minimum"`
	Added   time.Time       `json:"added"`

	// Joined fields (not always populated).
	Unit *Unit `json:"unit,omitempty"`
}

// Slugify derives the URL-safe identifier for an item name.
func Slugify(name string) string {
	return slug.Make(name)
}
