package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentAddFunds(t *testing.T) {
	v := NewInvestment("ETF", 1000, 0.05, 0, 0)
	v.AddFunds(500)
	assert.Equal(t, 1500.0, v.Amount)
	assert.Equal(t, 1000.0, v.InitialAmount, "initial amount is retained for reference")

	v.Deactivate()
	v.AddFunds(500)
	assert.Equal(t, 1500.0, v.Amount, "deposits into an inactive investment are ignored")
}

func TestInvestmentDividend(t *testing.T) {
	v := NewInvestment("ETF", 12000, 0, 0, 0.02)
	assert.InDelta(t, 240.0, v.Dividend(), 1e-9)

	v.Deactivate()
	assert.Equal(t, 0.0, v.Dividend())
}

func TestInvestmentYearlyGrowth(t *testing.T) {
	v := NewInvestment("ETF", 1000, 0.12, 0, 0)
	v.ApplyYearlyGrowth()
	assert.InDelta(t, 1120.0, v.Amount, 1e-9)

	v.Deactivate()
	v.ApplyYearlyGrowth()
	assert.InDelta(t, 1120.0, v.Amount, 1e-9)
}

func TestRevalueZeroVolatilityIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := NewInvestment("ETF", 1000, 0, 0, 0)
	for i := 0; i < 100; i++ {
		v.Revalue(rng)
	}
	assert.Equal(t, 1000.0, v.Amount)
}

func TestRevalueMultiplierIsFromShockSet(t *testing.T) {
	// With volatility 1 a shock occurs every draw. A down shock multiplies by
	// 1-m, an up shock by 1+m, for m in {0.05, 0.10, 0.15, 0.20, 0.30}.
	allowed := []float64{0.70, 0.80, 0.85, 0.90, 0.95, 1.05, 1.10, 1.15, 1.20, 1.30}

	rng := rand.New(rand.NewSource(42))
	v := NewInvestment("ETF", 1000, 0, 1, 0)
	for i := 0; i < 200; i++ {
		before := v.Amount
		v.Revalue(rng)
		ratio := v.Amount / before
		found := false
		for _, m := range allowed {
			if ratio > m-1e-9 && ratio < m+1e-9 {
				found = true
				break
			}
		}
		require.True(t, found, "multiplier %v not in the shock set", ratio)
	}
}

func TestRevalueDeterministicWithSeed(t *testing.T) {
	a := NewInvestment("ETF", 1000, 0, 0.5, 0)
	b := NewInvestment("ETF", 1000, 0, 0.5, 0)
	rngA := rand.New(rand.NewSource(7))
	rngB := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a.Revalue(rngA)
		b.Revalue(rngB)
	}
	assert.Equal(t, a.Amount, b.Amount)
}

func TestRevalueInactiveConsumesNoDraws(t *testing.T) {
	// An inactive investment must not advance the random stream: the next
	// active investment sees the same draws whether or not an inactive one
	// precedes it.
	active := NewInvestment("B", 1000, 0, 0.5, 0)
	inactive := NewInvestment("A", 1000, 0, 0.5, 0)
	inactive.Deactivate()

	rngA := rand.New(rand.NewSource(11))
	inactive.Revalue(rngA)
	active.Revalue(rngA)

	expected := NewInvestment("B", 1000, 0, 0.5, 0)
	rngB := rand.New(rand.NewSource(11))
	expected.Revalue(rngB)

	assert.Equal(t, expected.Amount, active.Amount)
	assert.Equal(t, 1000.0, inactive.Amount)
}
