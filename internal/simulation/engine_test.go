package simulation

import (
	"math/rand"
	"testing"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(weeks, value int) []int {
	out := make([]int, weeks)
	for i := range out {
		out[i] = value
	}
	return out
}

func levels(d *domain.Derivation) []int {
	out := make([]int, len(d.Trajectory))
	for i, rec := range d.Trajectory {
		out[i] = rec.StockLevel
	}
	return out
}

func TestDerive_DefaultScenarioIsAdequate(t *testing.T) {
	in := domain.SimulationInputs{
		WeeklyDemand:     100,
		SafetyStockWeeks: 2,
		InitialStock:     500,
		WeeklyReceiving:  uniform(12, 100),
	}

	d, err := NewEngine(12).Derive(in)
	require.NoError(t, err)

	assert.Equal(t, 200, d.SafetyStockThreshold)
	require.Len(t, d.Trajectory, 12)
	assert.Equal(t, 500, d.Trajectory[0].StockLevel)
	assert.Equal(t, 500, d.Trajectory[1].StockLevel)
	assert.Equal(t, uniform(12, 500), levels(d))
	assert.Equal(t, 500, d.MinStockLevel)
	assert.Equal(t, domain.StatusAdequate, d.Status)
}

func TestDerive_DepletingScenarioStocksOut(t *testing.T) {
	in := domain.SimulationInputs{
		WeeklyDemand:     100,
		SafetyStockWeeks: 2,
		InitialStock:     150,
		WeeklyReceiving:  uniform(12, 0),
	}

	d, err := NewEngine(12).Derive(in)
	require.NoError(t, err)

	assert.Equal(t, 200, d.SafetyStockThreshold)
	assert.Equal(t, 150, d.Trajectory[0].StockLevel)
	assert.Equal(t, 50, d.Trajectory[1].StockLevel)
	assert.Equal(t, domain.RowWarning, d.Trajectory[1].Classify())

	assert.Equal(t, 0, d.Trajectory[2].StockLevel)
	assert.Equal(t, -50, d.Trajectory[2].RunningBalance)
	assert.Equal(t, domain.RowStockout, d.Trajectory[2].Classify())
	assert.Equal(t, -950, d.Trajectory[11].RunningBalance)

	assert.Equal(t, 0, d.MinStockLevel)
	assert.Equal(t, domain.StatusStockout, d.Status)
}

func TestDerive_WeekZeroIgnoresItsOwnFlows(t *testing.T) {
	receiving := uniform(4, 0)
	receiving[0] = 1000

	d, err := NewEngine(4).Derive(domain.SimulationInputs{
		WeeklyDemand:    10,
		InitialStock:    100,
		WeeklyReceiving: receiving,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, d.Trajectory[0].StockLevel)
	assert.Equal(t, 1000, d.Trajectory[0].Inbound)
	assert.Equal(t, 10, d.Trajectory[0].Outbound)
	assert.Equal(t, 90, d.Trajectory[1].StockLevel)
}

func TestDerive_RecordsLabelsAndFlows(t *testing.T) {
	receiving := []int{5, 15, 25}
	d, err := NewEngine(3).Derive(domain.SimulationInputs{
		WeeklyDemand:     20,
		SafetyStockWeeks: 1,
		InitialStock:     40,
		WeeklyReceiving:  receiving,
	})
	require.NoError(t, err)

	for i, rec := range d.Trajectory {
		assert.Equal(t, i, rec.WeekIndex)
		assert.Equal(t, i+1, rec.WeekLabel)
		assert.Equal(t, receiving[i], rec.Inbound)
		assert.Equal(t, 20, rec.Outbound)
		assert.Equal(t, 20, rec.SafetyStockThreshold)
	}
	assert.Equal(t, []int{40, 35, 40}, levels(d))
}

func TestDerive_MalformedReceiving(t *testing.T) {
	tests := []struct {
		name      string
		receiving []int
	}{
		{"nil schedule", nil},
		{"too short", uniform(11, 100)},
		{"too long", uniform(13, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewEngine(12).Derive(domain.SimulationInputs{
				WeeklyDemand:    100,
				WeeklyReceiving: tt.receiving,
			})
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
			assert.Nil(t, d)
		})
	}
}

func TestDerive_ZeroHorizonIsMalformed(t *testing.T) {
	_, err := NewEngine(0).Derive(domain.SimulationInputs{})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestClassifyMinimum(t *testing.T) {
	tests := []struct {
		name      string
		minStock  int
		threshold int
		want      domain.StockStatus
	}{
		{"zero with zero threshold", 0, 0, domain.StatusStockout},
		{"zero beats below safety", 0, 200, domain.StatusStockout},
		{"positive at threshold", 200, 200, domain.StatusBelowSafety},
		{"positive under threshold", 1, 200, domain.StatusBelowSafety},
		{"above threshold", 201, 200, domain.StatusAdequate},
		{"positive with zero threshold", 1, 0, domain.StatusAdequate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMinimum(tt.minStock, tt.threshold))
		})
	}
}

func TestWeekRecord_Classify(t *testing.T) {
	tests := []struct {
		level     int
		threshold int
		want      domain.RowStatus
	}{
		{0, 0, domain.RowStockout},
		{0, 100, domain.RowStockout},
		{50, 100, domain.RowWarning},
		{100, 100, domain.RowWarning},
		{101, 100, domain.RowAdequate},
	}

	for _, tt := range tests {
		rec := domain.WeekRecord{StockLevel: tt.level, SafetyStockThreshold: tt.threshold}
		assert.Equal(t, tt.want, rec.Classify(), "level=%d threshold=%d", tt.level, tt.threshold)
	}
}

func randomInputs(r *rand.Rand, weeks int) domain.SimulationInputs {
	receiving := make([]int, weeks)
	for i := range receiving {
		receiving[i] = r.Intn(300)
	}
	return domain.SimulationInputs{
		WeeklyDemand:     r.Intn(300),
		SafetyStockWeeks: r.Intn(13),
		InitialStock:     r.Intn(2000),
		WeeklyReceiving:  receiving,
	}
}

func TestDerive_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	engine := NewEngine(12)

	for n := 0; n < 200; n++ {
		in := randomInputs(r, 12)

		first, err := engine.Derive(in)
		require.NoError(t, err)
		second, err := engine.Derive(in)
		require.NoError(t, err)

		assert.Equal(t, first, second, "derivation must be idempotent")
		assert.Len(t, first.Trajectory, 12)
		assert.Equal(t, in.WeeklyDemand*in.SafetyStockWeeks, first.SafetyStockThreshold)

		minLevel := first.Trajectory[0].StockLevel
		for _, rec := range first.Trajectory {
			assert.GreaterOrEqual(t, rec.StockLevel, 0)
			assert.Equal(t, max(0, rec.RunningBalance), rec.StockLevel)
			minLevel = min(minLevel, rec.StockLevel)
		}
		assert.Equal(t, minLevel, first.MinStockLevel)
		if first.MinStockLevel == 0 {
			assert.Equal(t, domain.StatusStockout, first.Status)
		}
	}
}

func TestDerive_MoreReceivingNeverLowersLaterStock(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	engine := NewEngine(12)

	for n := 0; n < 100; n++ {
		base := randomInputs(r, 12)
		week := r.Intn(12)
		delta := 1 + r.Intn(500)

		bumped := base.Clone()
		bumped.WeeklyReceiving[week] += delta

		before, err := engine.Derive(base)
		require.NoError(t, err)
		after, err := engine.Derive(bumped)
		require.NoError(t, err)

		for j := week; j < 12; j++ {
			assert.GreaterOrEqual(t, after.Trajectory[j].RunningBalance, before.Trajectory[j].RunningBalance)
			assert.GreaterOrEqual(t, after.Trajectory[j].StockLevel, before.Trajectory[j].StockLevel)
		}
	}
}

func TestDeriveTrajectory_DoesNotMutateInputs(t *testing.T) {
	in := domain.SimulationInputs{
		WeeklyDemand:    100,
		InitialStock:    10,
		WeeklyReceiving: uniform(3, 0),
	}
	snapshot := in.Clone()

	_, err := DeriveTrajectory(in, 3)
	require.NoError(t, err)
	assert.Equal(t, snapshot, in)
}
