package domain

import "fmt"

// Operation is the mutation an event action applies to an entity's amount.
type Operation string

const (
	OpAdd           Operation = "add"            // amount += value
	OpMultiply      Operation = "multiply"       // amount *= value
	OpReducePercent Operation = "reduce_percent" // amount *= (1 - value)
	OpAddPercent    Operation = "add_percent"    // amount *= (1 + value)
)

// Action is a declarative event effect: an operation applied to the amount of
// a named entity. Keeping actions as data rather than closures keeps events
// serializable and lets the engine resolve the target against its live
// collections at fire time.
type Action struct {
	Type  EntityType `json:"type"`
	Name  string     `json:"name"`
	Op    Operation  `json:"operation"`
	Value float64    `json:"value"`
}

// NewAction validates and builds an event action. Only amount-bearing entity
// types (income, expense, investment) can be targeted.
func NewAction(entityType, name, operation string, value float64) (Action, error) {
	typ, err := ParseEntityType(entityType)
	if err != nil {
		return Action{}, err
	}
	switch typ {
	case EntityIncome, EntityExpense, EntityInvestment:
	default:
		return Action{}, fmt.Errorf("%w: %q has no amount to act on", ErrUnknownEntityType, entityType)
	}
	op := Operation(operation)
	switch op {
	case OpAdd, OpMultiply, OpReducePercent, OpAddPercent:
	default:
		return Action{}, fmt.Errorf("unknown action operation %q", operation)
	}
	return Action{Type: typ, Name: name, Op: op, Value: value}, nil
}

// Apply returns the amount after the operation.
func (a Action) Apply(amount float64) float64 {
	switch a.Op {
	case OpAdd:
		return amount + a.Value
	case OpMultiply:
		return amount * a.Value
	case OpReducePercent:
		return amount * (1 - a.Value)
	case OpAddPercent:
		return amount * (1 + a.Value)
	}
	return amount
}
