package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar/fincast/internal/simulation"
)

func newTestServer() *Server {
	return New(Config{Port: 0, Log: zerolog.Nop()})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createEngine(t *testing.T, s *Server, cfg simulation.Config) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/engines", cfg)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func TestCreateEngineAndStep(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{StartingCash: 15000})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/incomes", map[string]any{
		"name": "Salary", "amount": 20000, "recurrence": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/expenses", map[string]any{
		"name": "Living", "amount": 6000, "recurrence": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/step", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap simulation.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 0, snap.Month)
	assert.Equal(t, 29000.0, snap.Cash)
	assert.Equal(t, 20000.0, snap.Income)
	assert.Equal(t, 6000.0, snap.Expense)
}

func TestUnknownEngineReturns404(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/api/engines/nope/step", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddFlowInvalidRecurrenceReturns400(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/incomes", map[string]any{
		"name": "Broken", "amount": 100, "recurrence": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddTargetZeroGoalReturns400(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/targets", map[string]any{
		"name": "Nothing", "metric": "cash", "goal_value": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunAndHistory(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/run", map[string]any{"months": 6})
	require.Equal(t, http.StatusOK, rec.Code)

	var snaps []simulation.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Len(t, snaps, 6)

	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []simulation.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, snaps, history)

	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/history/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunRejectsNonPositiveMonths(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/run", map[string]any{"months": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAndGetObject(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/investments", map[string]any{
		"name": "ETF", "amount": 1000, "yearly_return_rate": 0.05,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/objects/investment/ETF", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/engines/"+id+"/objects/investment/ETF", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Soft-deleted investments are no longer visible to lookups.
	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/objects/investment/ETF", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/objects/spaceship/ETF", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventEndpointValidatesAction(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/events", map[string]any{
		"name": "Bad", "trigger_month": 2,
		"action": map[string]any{"type": "target", "name": "x", "operation": "add", "value": 1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTargetSeriesEndpoint(t *testing.T) {
	s := newTestServer()
	id := createEngine(t, s, simulation.Config{})

	rec := doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/incomes", map[string]any{
		"name": "Salary", "amount": 1000, "recurrence": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/targets", map[string]any{
		"name": "Savings", "metric": "cash", "goal_value": 2500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/engines/"+id+"/run", map[string]any{"months": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/targets/Savings/series", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var series simulation.TargetSeries
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	assert.Equal(t, 2500.0, series.Goal)
	assert.Equal(t, []int{0, 1, 2}, series.Months)
	assert.Equal(t, []float64{1000, 2000, 3000}, series.Values)

	rec = doJSON(t, s, http.MethodGet, "/api/engines/"+id+"/targets/Unknown/series", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
