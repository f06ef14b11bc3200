package simulation

import (
	"fmt"
	"math"
	"sort"

	"github.com/avelar/fincast/internal/domain"
)

// Step advances the simulation by one month and returns the month's snapshot.
// The phases run in a fixed order:
//
//  1. Fire events scheduled for the current month
//  2. Settle due incomes (cash in)
//  3. Settle due expenses (cash out)
//  4. Pay monthly dividend equivalents (reinvest or to cash)
//  5. Apply one stochastic revaluation shock per active investment
//  6. Apply yearly expected growth at year boundaries
//  7. Sweep a fraction of cash into investments per allocation
//  8. Apply growth increments to flows that were due this month
//  9. Evaluate targets against post-mutation state and record the snapshot
//  10. Advance the month counter
//
// Step is fail-fast: on error the month's mutation is unspecified (state
// changed by earlier phases stays changed), no snapshot is recorded, and the
// month counter does not advance.
func (e *Engine) Step() (Snapshot, error) {
	// 1) Events
	for _, ev := range e.events {
		if !ev.ShouldFire(e.month) {
			continue
		}
		if err := e.applyAction(ev.Action); err != nil {
			return Snapshot{}, fmt.Errorf("event %q: %w", ev.Name, err)
		}
		ev.Executed = true
		e.log.Info().Str("event", ev.Name).Int("month", e.month).Msg("Event fired")
	}

	// 2) Due incomes
	incomeTotal := 0.0
	for _, f := range e.incomes {
		if f.IsDue(e.month) {
			amt := f.Settle()
			incomeTotal += amt
			e.cash += amt
		}
	}

	// 3) Due expenses
	expenseTotal := 0.0
	for _, f := range e.expenses {
		if f.IsDue(e.month) {
			amt := f.Settle()
			expenseTotal += amt
			e.cash -= amt
		}
	}

	// 4) Dividends, normalized to monthly
	dividendsTotal := 0.0
	for _, v := range e.investments {
		if !v.Active {
			continue
		}
		monthlyDiv := v.Dividend() / 12
		dividendsTotal += monthlyDiv
		if e.reinvestDividends {
			v.AddFunds(monthlyDiv)
		} else {
			e.cash += monthlyDiv
		}
	}

	// 5) Stochastic revaluation, one independent shock per active investment
	for _, v := range e.investments {
		v.Revalue(e.rng)
	}

	// 6) Yearly growth on the 12th, 24th, ... month of the run
	if (e.month+1)%12 == 0 {
		for _, v := range e.investments {
			v.ApplyYearlyGrowth()
		}
	}

	// 7) Cash sweep
	investedFromSweep, err := e.sweep()
	if err != nil {
		return Snapshot{}, err
	}

	// 8) Growth increments for flows that were due this month; the raised
	// amount takes effect next cycle.
	for _, f := range e.incomes {
		if f.IsDue(e.month) {
			f.ApplyGrowth()
		}
	}
	for _, f := range e.expenses {
		if f.IsDue(e.month) {
			f.ApplyGrowth()
		}
	}

	// 9) + 10) Evaluate targets, record the snapshot, advance time
	snapshot := Snapshot{
		Month:            e.month,
		Cash:             roundCents(e.cash),
		Income:           roundCents(incomeTotal),
		Expense:          roundCents(expenseTotal),
		Dividends:        roundCents(dividendsTotal),
		Invested:         roundCents(investedFromSweep),
		InvestmentsTotal: roundCents(e.TotalInvested()),
		Targets:          e.targetStatuses(),
	}
	e.history = append(e.history, snapshot)
	e.month++

	e.log.Debug().
		Int("month", snapshot.Month).
		Float64("cash", snapshot.Cash).
		Float64("income", snapshot.Income).
		Float64("expense", snapshot.Expense).
		Float64("investments_total", snapshot.InvestmentsTotal).
		Msg("Month stepped")

	return snapshot, nil
}

// sweep moves a fraction of the cash balance into active investments
// proportionally to the allocation weights. Weights are normalized over the
// full allocation, so entries naming a missing or inactive investment leave
// their share of the sweep in cash. Allocation entries are processed in name
// order to keep trajectories reproducible.
func (e *Engine) sweep() (float64, error) {
	if e.investSweepRate <= 0 || len(e.allocation) == 0 {
		return 0, nil
	}
	sweepAmount := math.Max(0, e.cash*e.investSweepRate)
	if sweepAmount <= 0 {
		return 0, nil
	}

	totalWeight := 0.0
	for _, w := range e.allocation {
		totalWeight += w
	}
	if totalWeight <= 0 {
		return 0, fmt.Errorf("%w: total weight %v", domain.ErrInvalidAllocation, totalWeight)
	}

	names := make([]string, 0, len(e.allocation))
	for name := range e.allocation {
		names = append(names, name)
	}
	sort.Strings(names)

	invested := 0.0
	for _, name := range names {
		target := e.activeInvestment(name)
		if target == nil {
			continue
		}
		amount := sweepAmount * (e.allocation[name] / totalWeight)
		target.AddFunds(amount)
		invested += amount
	}
	e.cash -= invested
	return invested, nil
}

// Run invokes Step n times and returns the produced snapshots in order. It is
// purely time-bounded: reaching a target does not stop the run. On error the
// snapshots of the months completed so far are returned with the error.
func (e *Engine) Run(months int) ([]Snapshot, error) {
	results := make([]Snapshot, 0, months)
	for i := 0; i < months; i++ {
		snapshot, err := e.Step()
		if err != nil {
			return results, fmt.Errorf("month %d: %w", e.month, err)
		}
		results = append(results, snapshot)
	}
	return results, nil
}
