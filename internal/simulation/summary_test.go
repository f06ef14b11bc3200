package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar/fincast/internal/domain"
)

func TestSummarizeRequiresHistory(t *testing.T) {
	e := newTestEngine(Config{})
	_, err := e.Summarize()
	assert.Error(t, err)
}

func TestSummarizeFlatTrajectory(t *testing.T) {
	e := newTestEngine(Config{StartingCash: 100})
	require.NoError(t, e.AddIncome(domain.NewFlow("Salary", 2000, 1, false, 0)))
	require.NoError(t, e.AddExpense(domain.NewFlow("Living", 500, 1, false, 0)))

	_, err := e.Run(6)
	require.NoError(t, err)

	summary, err := e.Summarize()
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Months)
	assert.InDelta(t, 1500.0, summary.MeanNetCashFlow, 1e-9)
	assert.InDelta(t, 0.0, summary.StdDevNetCashFlow, 1e-9)
	assert.InDelta(t, 1600.0, summary.MinCash, 1e-9)
	assert.InDelta(t, 9100.0, summary.MaxCash, 1e-9)
	assert.InDelta(t, 9100.0, summary.FinalCash, 1e-9)
	assert.Equal(t, 0.0, summary.FinalInvestments)
}
