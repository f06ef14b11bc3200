// Package simulation implements the discrete-time forecasting engine: it owns
// the entity collections and cash balance, advances the virtual calendar one
// month at a time, and records a snapshot history.
package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelar/fincast/internal/domain"
)

// Config holds the construction parameters of an engine.
type Config struct {
	StartMonth        int                `json:"start_month"`
	StartingCash      float64            `json:"starting_cash"`
	ReinvestDividends bool               `json:"reinvest_dividends"`
	InvestSweepRate   float64            `json:"invest_sweep_rate"` // fraction of end-of-month cash swept into investments, [0,1]
	Allocation        map[string]float64 `json:"allocation"`        // investment name -> sweep weight
	RandomSeed        *int64             `json:"random_seed"`       // nil seeds from the clock
}

type indexKey struct {
	typ  domain.EntityType
	name string
}

// Engine is the simulation orchestrator. It is not safe for concurrent use;
// callers must serialize access to a given instance.
type Engine struct {
	month int
	cash  float64

	incomes     []*domain.Flow
	expenses    []*domain.Flow
	investments []*domain.Investment
	events      []*domain.Event
	targets     []*domain.Target

	reinvestDividends bool
	investSweepRate   float64
	allocation        map[string]float64

	history []Snapshot

	// index maps (type, name) to insertion positions for the amount-bearing
	// collections, preserving first-active-match semantics when names repeat.
	index map[indexKey][]int

	rng *rand.Rand
	log zerolog.Logger
}

// New creates an engine from the given configuration. Each engine owns its
// random source, so simulations with distinct engines are independent and a
// fixed seed reproduces an identical trajectory.
func New(cfg Config, log zerolog.Logger) *Engine {
	seed := time.Now().UnixNano()
	if cfg.RandomSeed != nil {
		seed = *cfg.RandomSeed
	}
	allocation := make(map[string]float64, len(cfg.Allocation))
	for name, weight := range cfg.Allocation {
		allocation[name] = weight
	}
	return &Engine{
		month:             cfg.StartMonth,
		cash:              cfg.StartingCash,
		reinvestDividends: cfg.ReinvestDividends,
		investSweepRate:   cfg.InvestSweepRate,
		allocation:        allocation,
		index:             make(map[indexKey][]int),
		rng:               rand.New(rand.NewSource(seed)),
		log:               log.With().Str("component", "engine").Logger(),
	}
}

// Month returns the current absolute month index.
func (e *Engine) Month() int { return e.month }

// Cash returns the current cash balance. It may be negative; the engine does
// not enforce solvency.
func (e *Engine) Cash() float64 { return e.cash }

// Targets returns the live target collection.
func (e *Engine) Targets() []*domain.Target { return e.targets }

// History returns a copy of the snapshot history in month order.
func (e *Engine) History() []Snapshot {
	out := make([]Snapshot, len(e.history))
	copy(out, e.history)
	return out
}

// ---------------- Adders ----------------

// AddIncome registers a recurring income. Fails if the recurrence is below
// one month.
func (e *Engine) AddIncome(f *domain.Flow) error {
	if err := validateRecurrence(f); err != nil {
		return fmt.Errorf("income %q: %w", f.Name, err)
	}
	e.incomes = append(e.incomes, f)
	key := indexKey{domain.EntityIncome, f.Name}
	e.index[key] = append(e.index[key], len(e.incomes)-1)
	e.log.Debug().Str("income", f.Name).Float64("amount", f.Amount).Msg("Added income")
	return nil
}

// AddExpense registers a recurring expense. Fails if the recurrence is below
// one month.
func (e *Engine) AddExpense(f *domain.Flow) error {
	if err := validateRecurrence(f); err != nil {
		return fmt.Errorf("expense %q: %w", f.Name, err)
	}
	e.expenses = append(e.expenses, f)
	key := indexKey{domain.EntityExpense, f.Name}
	e.index[key] = append(e.index[key], len(e.expenses)-1)
	e.log.Debug().Str("expense", f.Name).Float64("amount", f.Amount).Msg("Added expense")
	return nil
}

// AddInvestment registers an investment.
func (e *Engine) AddInvestment(v *domain.Investment) {
	e.investments = append(e.investments, v)
	key := indexKey{domain.EntityInvestment, v.Name}
	e.index[key] = append(e.index[key], len(e.investments)-1)
	e.log.Debug().Str("investment", v.Name).Float64("amount", v.Amount).Msg("Added investment")
}

// AddEvent registers a scheduled one-shot event.
func (e *Engine) AddEvent(ev *domain.Event) {
	e.events = append(e.events, ev)
	e.log.Debug().Str("event", ev.Name).Int("trigger_month", ev.TriggerMonth).Msg("Added event")
}

// AddTarget registers a progress target.
func (e *Engine) AddTarget(t *domain.Target) {
	e.targets = append(e.targets, t)
	e.log.Debug().Str("target", t.Name).Float64("goal", t.GoalValue).Msg("Added target")
}

func validateRecurrence(f *domain.Flow) error {
	if f.Recurrence < 1 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidRecurrence, f.Recurrence)
	}
	return nil
}

// ---------------- Lookup & deletion ----------------

// firstActiveFlow returns the first active flow with the given name from the
// indexed positions of a collection.
func firstActiveFlow(flows []*domain.Flow, positions []int) *domain.Flow {
	for _, i := range positions {
		if flows[i].Active {
			return flows[i]
		}
	}
	return nil
}

func (e *Engine) activeIncome(name string) *domain.Flow {
	return firstActiveFlow(e.incomes, e.index[indexKey{domain.EntityIncome, name}])
}

func (e *Engine) activeExpense(name string) *domain.Flow {
	return firstActiveFlow(e.expenses, e.index[indexKey{domain.EntityExpense, name}])
}

func (e *Engine) activeInvestment(name string) *domain.Investment {
	for _, i := range e.index[indexKey{domain.EntityInvestment, name}] {
		if e.investments[i].Active {
			return e.investments[i]
		}
	}
	return nil
}

// Get returns the first active entity of the given type with the given name,
// or found=false when there is none. Events and targets have no activity flag
// and match by name alone.
func (e *Engine) Get(entityType, name string) (any, bool, error) {
	typ, err := domain.ParseEntityType(entityType)
	if err != nil {
		return nil, false, err
	}
	switch typ {
	case domain.EntityIncome:
		if f := e.activeIncome(name); f != nil {
			return f, true, nil
		}
	case domain.EntityExpense:
		if f := e.activeExpense(name); f != nil {
			return f, true, nil
		}
	case domain.EntityInvestment:
		if v := e.activeInvestment(name); v != nil {
			return v, true, nil
		}
	case domain.EntityEvent:
		for _, ev := range e.events {
			if ev.Name == name {
				return ev, true, nil
			}
		}
	case domain.EntityTarget:
		for _, t := range e.targets {
			if t.Name == name {
				return t, true, nil
			}
		}
	}
	return nil, false, nil
}

// Delete removes the first entity of the given type with the given name.
// Flows and investments are soft-deactivated and stay in their collections;
// events and targets are removed outright. Returns whether a match was found.
func (e *Engine) Delete(entityType, name string) (bool, error) {
	typ, err := domain.ParseEntityType(entityType)
	if err != nil {
		return false, err
	}
	switch typ {
	case domain.EntityIncome:
		for _, i := range e.index[indexKey{typ, name}] {
			e.incomes[i].Deactivate()
			e.log.Info().Str("income", name).Msg("Deactivated income")
			return true, nil
		}
	case domain.EntityExpense:
		for _, i := range e.index[indexKey{typ, name}] {
			e.expenses[i].Deactivate()
			e.log.Info().Str("expense", name).Msg("Deactivated expense")
			return true, nil
		}
	case domain.EntityInvestment:
		for _, i := range e.index[indexKey{typ, name}] {
			e.investments[i].Deactivate()
			e.log.Info().Str("investment", name).Msg("Deactivated investment")
			return true, nil
		}
	case domain.EntityEvent:
		for i, ev := range e.events {
			if ev.Name == name {
				e.events = append(e.events[:i], e.events[i+1:]...)
				e.log.Info().Str("event", name).Msg("Removed event")
				return true, nil
			}
		}
	case domain.EntityTarget:
		for i, t := range e.targets {
			if t.Name == name {
				e.targets = append(e.targets[:i], e.targets[i+1:]...)
				e.log.Info().Str("target", name).Msg("Removed target")
				return true, nil
			}
		}
	}
	return false, nil
}

// applyAction resolves an event action against the live collections and
// mutates the named entity's amount. A missing or inactive entity is an
// ObjectNotFound error, not a silent no-op.
func (e *Engine) applyAction(a domain.Action) error {
	switch a.Type {
	case domain.EntityIncome:
		if f := e.activeIncome(a.Name); f != nil {
			f.Amount = a.Apply(f.Amount)
			return nil
		}
	case domain.EntityExpense:
		if f := e.activeExpense(a.Name); f != nil {
			f.Amount = a.Apply(f.Amount)
			return nil
		}
	case domain.EntityInvestment:
		if v := e.activeInvestment(a.Name); v != nil {
			v.Amount = a.Apply(v.Amount)
			return nil
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, a.Type)
	}
	return fmt.Errorf("%w: no active %s named %q", domain.ErrObjectNotFound, a.Type, a.Name)
}

// ---------------- Aggregates ----------------

// TotalMonthlyIncomeEquivalent sums the monthly-equivalents of active incomes.
// When dividends are not auto-reinvested they arrive as cash and count as
// income too.
func (e *Engine) TotalMonthlyIncomeEquivalent() float64 {
	total := 0.0
	for _, f := range e.incomes {
		total += f.MonthlyEquivalent()
	}
	if !e.reinvestDividends {
		total += e.TotalMonthlyDividendEquivalent()
	}
	return total
}

// TotalMonthlyExpenseEquivalent sums the monthly-equivalents of active expenses.
func (e *Engine) TotalMonthlyExpenseEquivalent() float64 {
	total := 0.0
	for _, f := range e.expenses {
		total += f.MonthlyEquivalent()
	}
	return total
}

// TotalMonthlyDividendEquivalent sums active investments' dividends normalized
// to a monthly value.
func (e *Engine) TotalMonthlyDividendEquivalent() float64 {
	total := 0.0
	for _, v := range e.investments {
		total += v.Dividend() / 12
	}
	return total
}

// TotalInvested sums the balances of active investments.
func (e *Engine) TotalInvested() float64 {
	total := 0.0
	for _, v := range e.investments {
		if v.Active {
			total += v.Amount
		}
	}
	return total
}

// metricValue evaluates a target metric against current engine state.
func (e *Engine) metricValue(m domain.Metric) float64 {
	switch m {
	case domain.MetricMonthlyIncome:
		return e.TotalMonthlyIncomeEquivalent()
	case domain.MetricMonthlyExpense:
		return e.TotalMonthlyExpenseEquivalent()
	case domain.MetricMonthlyNet:
		return e.TotalMonthlyIncomeEquivalent() - e.TotalMonthlyExpenseEquivalent()
	case domain.MetricMonthlyDividends:
		return e.TotalMonthlyDividendEquivalent()
	case domain.MetricInvestedTotal:
		return e.TotalInvested()
	case domain.MetricCash:
		return e.cash
	case domain.MetricNetWorth:
		return e.cash + e.TotalInvested()
	}
	return 0
}

func (e *Engine) targetStatuses() []TargetStatus {
	statuses := make([]TargetStatus, 0, len(e.targets))
	for _, t := range e.targets {
		current := e.metricValue(t.Metric)
		statuses = append(statuses, TargetStatus{
			Name:     t.Name,
			Current:  current,
			Progress: t.Progress(current),
			Reached:  t.IsReached(current),
		})
	}
	return statuses
}
