package simulation

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over a run's history.
type Summary struct {
	Months            int     `json:"months"`
	MeanNetCashFlow   float64 `json:"mean_net_cash_flow"`   // mean of monthly income - expense
	StdDevNetCashFlow float64 `json:"stddev_net_cash_flow"` // sample standard deviation of the same
	MeanMonthlyReturn float64 `json:"mean_monthly_return"`  // mean month-over-month relative change of invested total
	MinCash           float64 `json:"min_cash"`
	MaxCash           float64 `json:"max_cash"`
	FinalCash         float64 `json:"final_cash"`
	FinalInvestments  float64 `json:"final_investments"`
}

// Summarize computes trajectory statistics over the engine's history.
func (e *Engine) Summarize() (Summary, error) {
	if len(e.history) == 0 {
		return Summary{}, errors.New("history is empty, run the simulation first")
	}

	net := make([]float64, len(e.history))
	minCash := e.history[0].Cash
	maxCash := e.history[0].Cash
	for i, snap := range e.history {
		net[i] = snap.Income - snap.Expense
		if snap.Cash < minCash {
			minCash = snap.Cash
		}
		if snap.Cash > maxCash {
			maxCash = snap.Cash
		}
	}

	var returns []float64
	for i := 1; i < len(e.history); i++ {
		prev := e.history[i-1].InvestmentsTotal
		if prev != 0 {
			returns = append(returns, e.history[i].InvestmentsTotal/prev-1)
		}
	}
	meanReturn := 0.0
	if len(returns) > 0 {
		meanReturn = stat.Mean(returns, nil)
	}

	stddev := 0.0
	if len(net) > 1 {
		stddev = stat.StdDev(net, nil)
	}

	last := e.history[len(e.history)-1]
	return Summary{
		Months:            len(e.history),
		MeanNetCashFlow:   stat.Mean(net, nil),
		StdDevNetCashFlow: stddev,
		MeanMonthlyReturn: meanReturn,
		MinCash:           minCash,
		MaxCash:           maxCash,
		FinalCash:         last.Cash,
		FinalInvestments:  last.InvestmentsTotal,
	}, nil
}
