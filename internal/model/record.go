package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single quantity observation for an item at a point in time.
// Quantity is always stored in the item's base unit and is never negative.
// Records are ordered strictly by Added per item and are only removed when
// their item is deleted.
type Record struct {
	ID       int64           `json:"id"`
	ItemID   int64           `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Added    time.Time       `json:"added"`
	Note     string          `json:"note,omitempty"`
}
