// Package domain provides the core entity models for the forecasting simulator.
// The package is pure: no logging, no I/O, no infrastructure dependencies.
package domain

import "fmt"

// EntityType identifies one of the five entity collections managed by the engine.
type EntityType string

const (
	EntityIncome     EntityType = "income"
	EntityExpense    EntityType = "expense"
	EntityInvestment EntityType = "investment"
	EntityEvent      EntityType = "event"
	EntityTarget     EntityType = "target"
)

// ParseEntityType normalizes and validates a type tag.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityIncome, EntityExpense, EntityInvestment, EntityEvent, EntityTarget:
		return EntityType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
}
