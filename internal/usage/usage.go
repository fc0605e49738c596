// Package usage estimates consumption rates from an item's quantity records
// and projects when stock runs out.
package usage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation is a point-in-time quantity reading in base units.
type Observation struct {
	Quantity decimal.Decimal
	Added    time.Time
}

var secondsPerDay = decimal.NewFromInt(86400)

// Rate computes the average depletion rate in quantity per day over a
// time-ascending record sequence. Drops between consecutive records are
// pooled and divided by the total elapsed time, so longer intervals weigh
// proportionally more; increases (restocks) contribute nothing. The second
// return is false when no rate is defined, which callers must treat as
// distinct from a zero rate.
func Rate(records []Observation) (decimal.Decimal, bool) {
	if len(records) < 2 {
		return decimal.Decimal{}, false
	}

	drops := decimal.Zero
	var elapsed int64 // nanoseconds
	for i := 0; i+1 < len(records); i++ {
		if drop := records[i].Quantity.Sub(records[i+1].Quantity); drop.IsPositive() {
			drops = drops.Add(drop)
		}
		elapsed += records[i+1].Added.Sub(records[i].Added).Nanoseconds()
	}

	if !drops.IsPositive() || elapsed <= 0 {
		return decimal.Decimal{}, false
	}

	// Scale before dividing so exact daily rates stay exact.
	seconds := decimal.New(elapsed, -9)
	return drops.Mul(secondsPerDay).Div(seconds), true
}

// ExpectedEnd projects the instant the latest observed quantity runs out at
// the given rate. The projection is only defined for a positive quantity
// and a defined, positive rate; otherwise the second return is false.
func ExpectedEnd(latest Observation, rate decimal.Decimal) (time.Time, bool) {
	if !latest.Quantity.IsPositive() || !rate.IsPositive() {
		return time.Time{}, false
	}
	days := latest.Quantity.Div(rate)
	left := time.Duration(days.Mul(secondsPerDay).InexactFloat64() * float64(time.Second))
	return latest.Added.Add(left), true
}
