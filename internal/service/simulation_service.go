package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/andresuchdata/safetystock-sim/internal/metrics"
	"github.com/andresuchdata/safetystock-sim/internal/session"
	"github.com/andresuchdata/safetystock-sim/internal/simulation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SimulationService hosts one input holder per session and re-derives after every mutation.
type SimulationService struct {
	store    session.Store
	limits   domain.Limits
	defaults domain.Defaults
	engine   *simulation.Engine
	metrics  *metrics.Metrics

	// serializes read-modify-write cycles so each mutation completes before its derivation
	mu    sync.Mutex
	newID func() string
	now   func() time.Time
}

func NewSimulationService(store session.Store, limits domain.Limits, defaults domain.Defaults, m *metrics.Metrics) *SimulationService {
	if store == nil {
		store = session.NewMemoryStore(time.Hour)
	}
	if m == nil {
		m = metrics.New()
	}
	return &SimulationService{
		store:    store,
		limits:   limits,
		defaults: defaults,
		engine:   simulation.NewEngine(limits.Weeks),
		metrics:  m,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Limits returns the bounds every session is held to.
func (s *SimulationService) Limits() domain.Limits {
	return s.limits
}

// CreateSession starts a new UI root at the configured defaults.
func (s *SimulationService) CreateSession(ctx context.Context) (*domain.SimulationView, error) {
	h := simulation.NewHolder(s.limits, s.defaults)
	id := s.newID()

	state := h.State(id)
	state.CreatedAt = s.now()
	state.UpdatedAt = state.CreatedAt
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	log.Debug().Str("session_id", id).Msg("simulation session created")
	return s.render(id, h, h.DrainNotices())
}

func (s *SimulationService) GetSession(ctx context.Context, id string) (*domain.SimulationView, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	h, err := simulation.Restore(s.limits, state)
	if err != nil {
		return nil, err
	}
	return s.render(id, h, nil)
}

// DeleteSession drops a session. It waits for in-flight mutations so none can save it back.
func (s *SimulationService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Delete(ctx, id)
}

func (s *SimulationService) SetWeeklyDemand(ctx context.Context, id string, v int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "set_weekly_demand", func(h *simulation.Holder) error {
		h.SetWeeklyDemand(v)
		return nil
	})
}

func (s *SimulationService) SetSafetyStockWeeks(ctx context.Context, id string, v int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "set_safety_stock_weeks", func(h *simulation.Holder) error {
		h.SetSafetyStockWeeks(v)
		return nil
	})
}

func (s *SimulationService) SetInitialStock(ctx context.Context, id string, v int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "set_initial_stock", func(h *simulation.Holder) error {
		h.SetInitialStock(v)
		return nil
	})
}

func (s *SimulationService) SetReceiving(ctx context.Context, id string, week, v int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "set_receiving", func(h *simulation.Holder) error {
		_, err := h.SetReceiving(week, v)
		return err
	})
}

func (s *SimulationService) SetAllReceiving(ctx context.Context, id string, v int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "set_all_receiving", func(h *simulation.Holder) error {
		h.SetAllReceiving(v)
		return nil
	})
}

func (s *SimulationService) MatchReceivingToDemand(ctx context.Context, id string) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "match_receiving_to_demand", func(h *simulation.Holder) error {
		h.MatchReceivingToDemand()
		return nil
	})
}

func (s *SimulationService) ResetReceiving(ctx context.Context, id string) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "reset_receiving", func(h *simulation.Holder) error {
		h.ResetReceiving()
		return nil
	})
}

func (s *SimulationService) Step(ctx context.Context, id, field string, steps int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "step", func(h *simulation.Holder) error {
		_, err := h.Step(field, steps)
		return err
	})
}

func (s *SimulationService) StepReceiving(ctx context.Context, id string, week, delta int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "step_receiving", func(h *simulation.Holder) error {
		_, err := h.StepReceiving(week, delta)
		return err
	})
}

// UpdateChart changes the presentation-only chart scale. Nil fields are left as they are.
func (s *SimulationService) UpdateChart(ctx context.Context, id string, fixed *bool, yMax *int) (*domain.SimulationView, error) {
	return s.mutate(ctx, id, "update_chart", func(h *simulation.Holder) error {
		if fixed != nil {
			h.SetYAxisFixed(*fixed)
		}
		if yMax != nil {
			h.SetYAxisMax(*yMax)
		}
		return nil
	})
}

// Derive runs a stateless derivation for a complete set of inputs.
// Out-of-range values are clamped and reported as warnings.
func (s *SimulationService) Derive(ctx context.Context, in domain.SimulationInputs) (*domain.SimulationView, error) {
	h := simulation.NewHolder(s.limits, s.defaults)
	h.DrainNotices()

	if _, err := h.Load(in); err != nil {
		return nil, err
	}
	return s.render("", h, h.DrainNotices())
}

// SweepSessions drops expired sessions and refreshes the active session gauge.
func (s *SimulationService) SweepSessions(ctx context.Context) (int, error) {
	remaining, err := s.store.Sweep(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	s.metrics.SetActiveSessions(remaining)
	return remaining, nil
}

func (s *SimulationService) mutate(ctx context.Context, id, operation string, fn func(h *simulation.Holder) error) (*domain.SimulationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	h, err := simulation.Restore(s.limits, state)
	if err != nil {
		return nil, err
	}

	if err := fn(h); err != nil {
		return nil, err
	}
	notices := h.DrainNotices()

	next := h.State(id)
	next.CreatedAt = state.CreatedAt
	next.UpdatedAt = s.now()
	if err := s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.RecordMutation(operation, notices)
	if len(notices) > 0 {
		log.Debug().
			Str("session_id", id).
			Str("operation", operation).
			Interface("clamped", notices).
			Msg("simulation input clamped")
	}

	return s.render(id, h, notices)
}

func (s *SimulationService) render(id string, h *simulation.Holder, notices []domain.ClampNotice) (*domain.SimulationView, error) {
	inputs := h.Inputs()
	derivation, err := s.engine.Derive(inputs)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordDerivation(derivation.Status)

	return simulation.BuildView(id, h.Version(), inputs, h.Chart(), derivation, notices), nil
}
