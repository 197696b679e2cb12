package simulation

import "github.com/andresuchdata/safetystock-sim/internal/domain"

// BuildView assembles the presentation payload for a derivation.
func BuildView(sessionID string, version uint64, in domain.SimulationInputs, chart domain.ChartSettings,
	d *domain.Derivation, warnings []domain.ClampNotice) *domain.SimulationView {
	weeks := make([]domain.WeekView, len(d.Trajectory))
	for i, rec := range d.Trajectory {
		weeks[i] = domain.WeekView{
			WeekRecord: rec,
			Label:      domain.WeekLabel(rec.WeekIndex),
			Status:     rec.Classify(),
		}
	}

	return &domain.SimulationView{
		SessionID:            sessionID,
		Version:              version,
		Inputs:               in,
		Chart:                chart,
		SafetyStockThreshold: d.SafetyStockThreshold,
		MinStockLevel:        d.MinStockLevel,
		Status:               d.Status,
		StatusLabel:          domain.StockStatusLabel(d.Status),
		Weeks:                weeks,
		Insights:             ComputeInsights(in),
		Warnings:             warnings,
	}
}
