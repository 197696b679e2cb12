package simulation

import (
	"fmt"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeInsights returns the explanatory figures for a set of inputs.
func ComputeInsights(in domain.SimulationInputs) domain.Insights {
	threshold := in.SafetyStockThreshold()
	insights := domain.Insights{
		Formula: fmt.Sprintf("%d = %d × %d", threshold, in.WeeklyDemand, in.SafetyStockWeeks),
	}

	// Weeks the initial stock lasts with no inbound at all
	if in.WeeklyDemand > 0 {
		cover := decimal.NewFromInt(int64(in.InitialStock)).
			Div(decimal.NewFromInt(int64(in.WeeklyDemand))).
			Round(1)
		f := cover.InexactFloat64()
		insights.WeeksOfCover = &f
	}

	// Share of the initial stock taken by the safety zone, capped at 100%
	if in.InitialStock > 0 {
		pct := decimal.NewFromInt(int64(threshold)).
			Div(decimal.NewFromInt(int64(in.InitialStock))).
			Mul(hundred)
		pct = decimal.Min(pct, hundred).Round(1)
		f := pct.InexactFloat64()
		insights.SafetyZonePercent = &f
	}

	return insights
}
