// Package export builds the JSON projection of a user's inventory consumed
// by clients.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macph/inventory/internal/model"
	"github.com/macph/inventory/internal/store"
)

// Projection is the exported document. Decimals marshal as quoted strings
// and timestamps as RFC 3339.
type Projection struct {
	Items []Item `json:"items"`
}

// Item is one exported item. Avg is null when no consumption rate is
// defined, which clients must treat as distinct from zero.
type Item struct {
	Name    string           `json:"name"`
	Ident   string           `json:"ident"`
	Min     decimal.Decimal  `json:"min"`
	Avg     *decimal.Decimal `json:"avg"`
	Records []Record         `json:"records"`
}

// Record is one exported quantity observation, in base units.
type Record struct {
	Quantity decimal.Decimal `json:"q"`
	Added    time.Time       `json:"a"`
}

// Build assembles the projection for all of a user's items, or a single
// item when ident is non-empty.
func Build(ctx context.Context, db *sql.DB, userID int64, ident string) (*Projection, error) {
	var items []model.Item
	if ident != "" {
		item, err := store.GetItemByIdent(ctx, db, userID, ident)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %q not found", ident)
		}
		items = []model.Item{*item}
	} else {
		var err error
		if items, err = store.ListItems(ctx, db, userID); err != nil {
			return nil, err
		}
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	rates, err := store.AverageUse(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	projection := &Projection{Items: make([]Item, 0, len(items))}
	for _, item := range items {
		records, err := store.ListRecords(ctx, db, item.ID)
		if err != nil {
			return nil, err
		}

		exported := Item{
			Name:    item.Name,
			Ident:   item.Ident,
			Min:     item.Minimum,
			Records: make([]Record, 0, len(records)),
		}
		if rate, ok := rates[item.ID]; ok {
			exported.Avg = &rate
		}
		for _, r := range records {
			exported.Records = append(exported.Records, Record{Quantity: r.Quantity, Added: r.Added})
		}
		projection.Items = append(projection.Items, exported)
	}

	return projection, nil
}
