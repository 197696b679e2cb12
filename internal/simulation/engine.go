package simulation

import (
	"fmt"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
)

// Engine derives stock trajectories over a fixed planning horizon
type Engine struct {
	weeks int
}

// NewEngine creates an engine for a horizon of the given number of weeks
func NewEngine(weeks int) *Engine {
	return &Engine{weeks: weeks}
}

// Derive computes the week-by-week trajectory for a snapshot of inputs.
// It never returns a partial trajectory.
func (e *Engine) Derive(in domain.SimulationInputs) (*domain.Derivation, error) {
	if e.weeks < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least one week, got %d", domain.ErrMalformedInput, e.weeks)
	}
	if len(in.WeeklyReceiving) != e.weeks {
		return nil, fmt.Errorf("%w: weekly receiving has %d entries, want %d",
			domain.ErrMalformedInput, len(in.WeeklyReceiving), e.weeks)
	}

	// 1. Safety stock threshold = weekly demand × safety stock weeks
	threshold := in.SafetyStockThreshold()

	// 2. Running balance starts at the initial stock
	running := in.InitialStock

	trajectory := make([]domain.WeekRecord, e.weeks)
	for i := 0; i < e.weeks; i++ {
		inbound := in.WeeklyReceiving[i]
		outbound := in.WeeklyDemand

		// 3. Week 0 shows the starting balance; its own flows are recorded but not applied
		if i > 0 {
			running = running + inbound - outbound
		}

		trajectory[i] = domain.WeekRecord{
			WeekIndex:            i,
			WeekLabel:            i + 1,
			StockLevel:           max(0, running),
			RunningBalance:       running,
			Inbound:              inbound,
			Outbound:             outbound,
			SafetyStockThreshold: threshold,
		}
	}

	// 4. Minimum of the floor-clamped levels
	minStock := trajectory[0].StockLevel
	for _, rec := range trajectory[1:] {
		minStock = min(minStock, rec.StockLevel)
	}

	return &domain.Derivation{
		Trajectory:           trajectory,
		SafetyStockThreshold: threshold,
		MinStockLevel:        minStock,
		Status:               ClassifyMinimum(minStock, threshold),
	}, nil
}

// ClassifyMinimum maps a trajectory minimum to the overall status.
// Stockout takes precedence over BelowSafety when the minimum is zero.
func ClassifyMinimum(minStock, threshold int) domain.StockStatus {
	switch {
	case minStock <= 0:
		return domain.StatusStockout
	case minStock <= threshold:
		return domain.StatusBelowSafety
	default:
		return domain.StatusAdequate
	}
}

// DeriveTrajectory is the stateless entry point for callers that do not keep an engine.
func DeriveTrajectory(in domain.SimulationInputs, weeks int) (*domain.Derivation, error) {
	return NewEngine(weeks).Derive(in)
}
