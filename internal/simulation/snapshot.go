package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avelar/fincast/internal/domain"
)

// TargetStatus is one target's evaluation at the end of a month.
type TargetStatus struct {
	Name     string  `json:"name"`
	Current  float64 `json:"current"`
	Progress float64 `json:"progress"` // percent of goal, capped at 100
	Reached  bool    `json:"reached"`
}

// Snapshot is an immutable record of engine state at the end of one simulated
// month. Monetary fields are rounded to cent precision for display stability;
// the engine's internal balances keep full precision.
type Snapshot struct {
	Month            int            `json:"month"`
	Cash             float64        `json:"cash"`
	Income           float64        `json:"income"`
	Expense          float64        `json:"expense"`
	Dividends        float64        `json:"dividends"`
	Invested         float64        `json:"invested"` // cash moved into investments by the sweep
	InvestmentsTotal float64        `json:"investments_total"`
	Targets          []TargetStatus `json:"targets"`
}

// roundCents rounds to two decimal places.
func roundCents(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// TargetSeries is a target's trajectory extracted from history, for external
// charting.
type TargetSeries struct {
	Name   string    `json:"name"`
	Goal   float64   `json:"goal"`
	Months []int     `json:"months"`
	Values []float64 `json:"values"`
}

// TargetSeries walks the history and collects the named target's current
// values per month together with its static goal value. Fails when the target
// never appears in history.
func (e *Engine) TargetSeries(name string) (TargetSeries, error) {
	series := TargetSeries{Name: name}
	for _, snap := range e.history {
		for _, ts := range snap.Targets {
			if ts.Name == name {
				series.Months = append(series.Months, snap.Month)
				series.Values = append(series.Values, ts.Current)
			}
		}
	}
	if len(series.Values) == 0 {
		return TargetSeries{}, fmt.Errorf("%w: no target named %q in history", domain.ErrObjectNotFound, name)
	}
	for _, t := range e.targets {
		if t.Name == name {
			series.Goal = t.GoalValue
			break
		}
	}
	return series, nil
}
