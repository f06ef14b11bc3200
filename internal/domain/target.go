package domain

import (
	"fmt"
	"math"
)

// Metric selects which engine-level value a target is measured against.
// Metrics are an enumeration rather than caller-supplied functions so targets
// stay serializable and evaluation stays inside the engine.
type Metric string

const (
	MetricMonthlyIncome    Metric = "monthly_income"    // monthly-equivalent income (incl. dividends when not reinvested)
	MetricMonthlyExpense   Metric = "monthly_expense"   // monthly-equivalent expenses
	MetricMonthlyNet       Metric = "monthly_net"       // monthly income minus monthly expenses
	MetricMonthlyDividends Metric = "monthly_dividends" // monthly-equivalent dividends
	MetricInvestedTotal    Metric = "invested_total"    // sum of active investment balances
	MetricCash             Metric = "cash"              // current cash balance
	MetricNetWorth         Metric = "net_worth"         // cash plus invested total
)

// ParseMetric validates a metric selector.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricMonthlyIncome, MetricMonthlyExpense, MetricMonthlyNet,
		MetricMonthlyDividends, MetricInvestedTotal, MetricCash, MetricNetWorth:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown target metric %q", s)
}

// Target is a stateless progress goal: a threshold on a metric, evaluated by
// the engine every month. It holds no evaluation state of its own.
type Target struct {
	Name      string  `json:"name"`
	Metric    Metric  `json:"metric"`
	GoalValue float64 `json:"goal_value"`
}

// NewTarget builds a target. A zero goal value is rejected here so evaluation
// can never divide by zero.
func NewTarget(name, metric string, goalValue float64) (*Target, error) {
	m, err := ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	if goalValue == 0 {
		return nil, fmt.Errorf("%w: target %q", ErrInvalidGoal, name)
	}
	return &Target{Name: name, Metric: m, GoalValue: goalValue}, nil
}

// Progress returns the percentage of the goal the current value represents,
// capped at 100.
func (t *Target) Progress(current float64) float64 {
	return math.Min(100, current/t.GoalValue*100)
}

// IsReached reports whether the current value meets or exceeds the goal.
func (t *Target) IsReached(current float64) bool {
	return current >= t.GoalValue
}
