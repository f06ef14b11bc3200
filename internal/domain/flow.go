package domain

// Flow is a recurring cash flow. Incomes and expenses share the same structure;
// the engine keeps them in separate collections and applies opposite signs.
type Flow struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Recurrence    int     `json:"recurrence"` // months between occurrences, >= 1
	GrowthEnabled bool    `json:"growth_enabled"`
	GrowthRate    float64 `json:"growth_rate"` // fraction applied per cycle when enabled
	Active        bool    `json:"active"`
}

// NewFlow creates an active recurring flow. When growth is disabled the rate is
// held at zero regardless of the value passed. Recurrence is validated when the
// flow is added to an engine, not here.
func NewFlow(name string, amount float64, recurrence int, growthEnabled bool, growthRate float64) *Flow {
	if !growthEnabled {
		growthRate = 0
	}
	return &Flow{
		Name:          name,
		Amount:        amount,
		Recurrence:    recurrence,
		GrowthEnabled: growthEnabled,
		GrowthRate:    growthRate,
		Active:        true,
	}
}

// IsDue reports whether the flow occurs at the given engine month. Flows are
// due at month 0 and every Recurrence months thereafter. Inactive flows are
// never due.
func (f *Flow) IsDue(month int) bool {
	return f.Active && month%f.Recurrence == 0
}

// Settle returns the amount to move this occurrence, 0 when inactive.
// It does not mutate the flow.
func (f *Flow) Settle() float64 {
	if !f.Active {
		return 0
	}
	return f.Amount
}

// ApplyGrowth compounds the amount by the growth rate. The engine calls this
// only on months the flow was due, after settlement, so the raised amount
// first takes effect on the next due cycle.
func (f *Flow) ApplyGrowth() {
	if f.GrowthEnabled && f.Active {
		f.Amount *= 1 + f.GrowthRate
	}
}

// MonthlyEquivalent normalizes the flow to a per-month value, 0 when inactive.
func (f *Flow) MonthlyEquivalent() float64 {
	if !f.Active {
		return 0
	}
	return f.Amount / float64(f.Recurrence)
}

// Deactivate soft-deletes the flow. There is no reactivation path.
func (f *Flow) Deactivate() {
	f.Active = false
}
