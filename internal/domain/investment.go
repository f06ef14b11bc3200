package domain

import (
	"math"
	"math/rand"
)

// Shock magnitude distribution for stochastic revaluation. Magnitudes are
// fractional jumps; weights sum to 1.
var (
	shockMagnitudes = []float64{0.05, 0.10, 0.15, 0.20, 0.30}
	shockWeights    = []float64{0.60, 0.20, 0.125, 0.05, 0.025}
)

// Investment is a balance subject to monthly stochastic revaluation, yearly
// scheduled growth, and dividend yield.
type Investment struct {
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	InitialAmount    float64 `json:"initial_amount"`
	YearlyReturnRate float64 `json:"yearly_return_rate"`
	Volatility       float64 `json:"volatility"`    // probability of a monthly shock, in [0,1]
	DividendRate     float64 `json:"dividend_rate"` // yearly-equivalent fraction of the balance
	Active           bool    `json:"active"`
}

// NewInvestment creates an active investment and records the starting balance
// for later reference.
func NewInvestment(name string, amount, yearlyReturnRate, volatility, dividendRate float64) *Investment {
	return &Investment{
		Name:             name,
		Amount:           amount,
		InitialAmount:    amount,
		YearlyReturnRate: yearlyReturnRate,
		Volatility:       volatility,
		DividendRate:     dividendRate,
		Active:           true,
	}
}

// AddFunds increases the balance. Deposits into an inactive investment are
// silently ignored.
func (v *Investment) AddFunds(amount float64) {
	if v.Active {
		v.Amount += amount
	}
}

// Revalue applies one monthly stochastic shock drawn from rng. With
// probability Volatility a shock occurs: a 50/50 direction draw followed by a
// magnitude draw from the shock distribution. The balance is multiplied by
// |direction + magnitude|, so a down shock scales by (1 - magnitude) and an up
// shock by (1 + magnitude). The absolute-value form is intentional and must
// not be replaced with a symmetric multiplier.
//
// An inactive investment consumes no draws. Draw order per shock is fixed:
// shock roll, direction, magnitude.
func (v *Investment) Revalue(rng *rand.Rand) {
	if !v.Active {
		return
	}
	if rng.Float64() >= v.Volatility {
		return
	}
	direction := -1.0
	if rng.Float64() > 0.5 {
		direction = 1.0
	}
	magnitude := drawMagnitude(rng)
	v.Amount *= math.Abs(direction + magnitude)
}

// drawMagnitude samples the discrete shock distribution by walking the
// cumulative weights with a single uniform draw.
func drawMagnitude(rng *rand.Rand) float64 {
	u := rng.Float64()
	cum := 0.0
	for i, w := range shockWeights {
		cum += w
		if u < cum {
			return shockMagnitudes[i]
		}
	}
	return shockMagnitudes[len(shockMagnitudes)-1]
}

// ApplyYearlyGrowth compounds the balance by the expected yearly return. The
// engine calls this at year boundaries only.
func (v *Investment) ApplyYearlyGrowth() {
	if v.Active {
		v.Amount *= 1 + v.YearlyReturnRate
	}
}

// Dividend returns the yearly-equivalent dividend, 0 when inactive. Callers
// divide by 12 for the monthly payout.
func (v *Investment) Dividend() float64 {
	if !v.Active {
		return 0
	}
	return v.Amount * v.DividendRate
}

// Deactivate soft-deletes the investment. There is no reactivation path.
func (v *Investment) Deactivate() {
	v.Active = false
}
