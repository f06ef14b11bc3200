package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelar/fincast/internal/domain"
	"github.com/avelar/fincast/internal/simulation"
)

type flowRequest struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Recurrence    int     `json:"recurrence"`
	GrowthEnabled bool    `json:"growth_enabled"`
	GrowthRate    float64 `json:"growth_rate"`
}

type investmentRequest struct {
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	YearlyReturnRate float64 `json:"yearly_return_rate"`
	Volatility       float64 `json:"volatility"`
	DividendRate     float64 `json:"dividend_rate"`
}

type actionRequest struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Operation string  `json:"operation"`
	Value     float64 `json:"value"`
}

type eventRequest struct {
	Name         string        `json:"name"`
	TriggerMonth int           `json:"trigger_month"`
	Action       actionRequest `json:"action"`
}

type targetRequest struct {
	Name      string  `json:"name"`
	Metric    string  `json:"metric"`
	GoalValue float64 `json:"goal_value"`
}

type runRequest struct {
	Months int `json:"months"`
}

func (s *Server) handleCreateEngine(w http.ResponseWriter, r *http.Request) {
	var cfg simulation.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	engine := simulation.New(cfg, s.base)
	id := s.createSession(engine)
	s.log.Info().Str("engine_id", id).Int("start_month", cfg.StartMonth).Msg("Engine created")
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// withEngine resolves the session from the URL, serializes access to its
// engine, and runs fn while the session lock is held.
func (s *Server) withEngine(w http.ResponseWriter, r *http.Request, fn func(engine *simulation.Engine)) {
	id := chi.URLParam(r, "id")
	sess, ok := s.getSession(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no engine with id "+id)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.engine)
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	s.addFlow(w, r, func(engine *simulation.Engine, f *domain.Flow) error {
		return engine.AddIncome(f)
	})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	s.addFlow(w, r, func(engine *simulation.Engine, f *domain.Flow) error {
		return engine.AddExpense(f)
	})
}

func (s *Server) addFlow(w http.ResponseWriter, r *http.Request, add func(*simulation.Engine, *domain.Flow) error) {
	var req flowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.withEngine(w, r, func(engine *simulation.Engine) {
		flow := domain.NewFlow(req.Name, req.Amount, req.Recurrence, req.GrowthEnabled, req.GrowthRate)
		if err := add(engine, flow); err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, flow)
	})
}

func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.withEngine(w, r, func(engine *simulation.Engine) {
		inv := domain.NewInvestment(req.Name, req.Amount, req.YearlyReturnRate, req.Volatility, req.DividendRate)
		engine.AddInvestment(inv)
		s.writeJSON(w, http.StatusCreated, inv)
	})
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.withEngine(w, r, func(engine *simulation.Engine) {
		action, err := domain.NewAction(req.Action.Type, req.Action.Name, req.Action.Operation, req.Action.Value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		event := domain.NewEvent(req.Name, req.TriggerMonth, action)
		engine.AddEvent(event)
		s.writeJSON(w, http.StatusCreated, event)
	})
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.withEngine(w, r, func(engine *simulation.Engine) {
		target, err := domain.NewTarget(req.Name, req.Metric, req.GoalValue)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		engine.AddTarget(target)
		s.writeJSON(w, http.StatusCreated, target)
	})
}

func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	name := chi.URLParam(r, "name")
	s.withEngine(w, r, func(engine *simulation.Engine) {
		obj, found, err := engine.Get(entityType, name)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		if !found {
			s.writeError(w, http.StatusNotFound, "no active "+entityType+" named "+name)
			return
		}
		s.writeJSON(w, http.StatusOK, obj)
	})
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	name := chi.URLParam(r, "name")
	s.withEngine(w, r, func(engine *simulation.Engine) {
		found, err := engine.Delete(entityType, name)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		if !found {
			s.writeError(w, http.StatusNotFound, "no "+entityType+" named "+name)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(engine *simulation.Engine) {
		snapshot, err := engine.Step()
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, snapshot)
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Months < 1 {
		s.writeError(w, http.StatusBadRequest, "months must be >= 1")
		return
	}
	s.withEngine(w, r, func(engine *simulation.Engine) {
		snapshots, err := engine.Run(req.Months)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, snapshots)
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(engine *simulation.Engine) {
		s.writeJSON(w, http.StatusOK, engine.History())
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(engine *simulation.Engine) {
		summary, err := engine.Summarize()
		if err != nil {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, summary)
	})
}

func (s *Server) handleTargetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.withEngine(w, r, func(engine *simulation.Engine) {
		series, err := engine.TargetSeries(name)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, series)
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(engine *simulation.Engine) {
		s.writeJSON(w, http.StatusOK, map[string]float64{
			"monthly_income":  engine.TotalMonthlyIncomeEquivalent(),
			"monthly_expense": engine.TotalMonthlyExpenseEquivalent(),
			"invested_total":  engine.TotalInvested(),
			"cash":            engine.Cash(),
		})
	})
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRecurrence),
		errors.Is(err, domain.ErrInvalidAllocation),
		errors.Is(err, domain.ErrInvalidGoal),
		errors.Is(err, domain.ErrUnknownEntityType):
		status = http.StatusBadRequest
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
