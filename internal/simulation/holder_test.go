package simulation

import (
	"math"
	"testing"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHolder() *Holder {
	return NewHolder(domain.DefaultLimits(), domain.DefaultDefaults())
}

func TestNewHolder_Defaults(t *testing.T) {
	h := newTestHolder()
	in := h.Inputs()

	assert.Equal(t, 100, in.WeeklyDemand)
	assert.Equal(t, 2, in.SafetyStockWeeks)
	assert.Equal(t, 500, in.InitialStock)
	assert.Equal(t, uniform(12, 100), in.WeeklyReceiving)
	assert.Equal(t, domain.ChartSettings{YAxisFixed: false, YAxisMax: 1000}, h.Chart())
	assert.Zero(t, h.Version())
	assert.Empty(t, h.DrainNotices())
}

func TestNewHolder_ClampsDefaultsAndHonorsHorizon(t *testing.T) {
	limits := domain.DefaultLimits()
	limits.Weeks = 4
	limits.MaxQuantity = 50

	h := NewHolder(limits, domain.DefaultDefaults())
	in := h.Inputs()

	assert.Equal(t, 50, in.WeeklyDemand)
	assert.Equal(t, 50, in.InitialStock)
	assert.Equal(t, uniform(4, 50), in.WeeklyReceiving)
}

func TestHolder_ScalarSettersClamp(t *testing.T) {
	tests := []struct {
		name  string
		apply func(h *Holder) domain.SimulationInputs
		read  func(in domain.SimulationInputs) int
		want  int
		field string
	}{
		{
			name:  "demand above ceiling",
			apply: func(h *Holder) domain.SimulationInputs { return h.SetWeeklyDemand(12000) },
			read:  func(in domain.SimulationInputs) int { return in.WeeklyDemand },
			want:  9999,
			field: FieldWeeklyDemand,
		},
		{
			name:  "negative demand",
			apply: func(h *Holder) domain.SimulationInputs { return h.SetWeeklyDemand(-5) },
			read:  func(in domain.SimulationInputs) int { return in.WeeklyDemand },
			want:  0,
			field: FieldWeeklyDemand,
		},
		{
			name:  "safety weeks above ceiling",
			apply: func(h *Holder) domain.SimulationInputs { return h.SetSafetyStockWeeks(13) },
			read:  func(in domain.SimulationInputs) int { return in.SafetyStockWeeks },
			want:  12,
			field: FieldSafetyStockWeeks,
		},
		{
			name:  "negative initial stock",
			apply: func(h *Holder) domain.SimulationInputs { return h.SetInitialStock(-1) },
			read:  func(in domain.SimulationInputs) int { return in.InitialStock },
			want:  0,
			field: FieldInitialStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHolder()
			got := tt.apply(h)

			assert.Equal(t, tt.want, tt.read(got))
			assert.Equal(t, tt.want, tt.read(h.Inputs()))

			notices := h.DrainNotices()
			require.Len(t, notices, 1)
			assert.Equal(t, tt.field, notices[0].Field)
			assert.Equal(t, tt.want, notices[0].Applied)
			assert.Empty(t, h.DrainNotices())
		})
	}
}

func TestHolder_InRangeValuesAreStoredWithoutNotice(t *testing.T) {
	h := newTestHolder()
	h.SetWeeklyDemand(250)
	h.SetSafetyStockWeeks(0)
	h.SetInitialStock(9999)

	in := h.Inputs()
	assert.Equal(t, 250, in.WeeklyDemand)
	assert.Equal(t, 0, in.SafetyStockWeeks)
	assert.Equal(t, 9999, in.InitialStock)
	assert.Empty(t, h.DrainNotices())
}

func TestHolder_SetReceivingClampsToCeiling(t *testing.T) {
	h := newTestHolder()

	in, err := h.SetReceiving(5, 15000)
	require.NoError(t, err)

	assert.Equal(t, 9999, in.WeeklyReceiving[5])
	for i, v := range in.WeeklyReceiving {
		if i != 5 {
			assert.Equal(t, 100, v, "week %d must be untouched", i)
		}
	}

	notices := h.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, domain.ClampNotice{Field: "weekly_receiving[5]", Requested: 15000, Applied: 9999}, notices[0])
}

func TestHolder_SetReceivingRejectsBadIndex(t *testing.T) {
	for _, week := range []int{-1, 12, 100} {
		h := newTestHolder()
		before := h.Inputs()

		in, err := h.SetReceiving(week, 10)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
		assert.Equal(t, before, in)
		assert.Equal(t, before, h.Inputs())
		assert.Zero(t, h.Version())
	}
}

func TestHolder_SetAllReceivingAfterEdits(t *testing.T) {
	h := newTestHolder()
	_, err := h.SetReceiving(0, 7)
	require.NoError(t, err)
	_, err = h.SetReceiving(11, 300)
	require.NoError(t, err)
	h.SetWeeklyDemand(140)

	in := h.SetAllReceiving(h.Inputs().WeeklyDemand)
	assert.Equal(t, uniform(12, 140), in.WeeklyReceiving)

	in = h.MatchReceivingToDemand()
	assert.Equal(t, uniform(12, 140), in.WeeklyReceiving)

	in = h.ResetReceiving()
	assert.Equal(t, uniform(12, 0), in.WeeklyReceiving)
}

func TestHolder_SetAllReceivingClampsOnce(t *testing.T) {
	h := newTestHolder()

	in := h.SetAllReceiving(20000)
	assert.Equal(t, uniform(12, 9999), in.WeeklyReceiving)
	assert.Len(t, h.DrainNotices(), 1)
}

func TestHolder_ReturnedSnapshotIsACopy(t *testing.T) {
	h := newTestHolder()
	in := h.SetWeeklyDemand(10)
	in.WeeklyReceiving[0] = 4242

	assert.Equal(t, 100, h.Inputs().WeeklyReceiving[0])
}

func TestHolder_VersionIncrementsOnEveryMutation(t *testing.T) {
	h := newTestHolder()

	h.SetWeeklyDemand(1)
	h.SetSafetyStockWeeks(1)
	h.SetInitialStock(1)
	_, _ = h.SetReceiving(1, 1)
	h.SetAllReceiving(1)
	h.SetYAxisFixed(true)
	h.SetYAxisMax(500)

	assert.Equal(t, uint64(7), h.Version())
}

func TestHolder_ChartSettingsDoNotAffectDerivation(t *testing.T) {
	h := newTestHolder()
	engine := NewEngine(12)

	before, err := engine.Derive(h.Inputs())
	require.NoError(t, err)

	h.SetYAxisFixed(true)
	h.SetYAxisMax(50)

	after, err := engine.Derive(h.Inputs())
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, domain.ChartSettings{YAxisFixed: true, YAxisMax: 100}, h.Chart())
}

func TestHolder_Step(t *testing.T) {
	tests := []struct {
		field string
		steps int
		check func(t *testing.T, h *Holder)
	}{
		{FieldWeeklyDemand, 1, func(t *testing.T, h *Holder) { assert.Equal(t, 110, h.Inputs().WeeklyDemand) }},
		{FieldWeeklyDemand, -10, func(t *testing.T, h *Holder) { assert.Equal(t, 0, h.Inputs().WeeklyDemand) }},
		{FieldSafetyStockWeeks, 10, func(t *testing.T, h *Holder) { assert.Equal(t, 12, h.Inputs().SafetyStockWeeks) }},
		{FieldInitialStock, -1, func(t *testing.T, h *Holder) { assert.Equal(t, 450, h.Inputs().InitialStock) }},
		{FieldYAxisMax, 10, func(t *testing.T, h *Holder) { assert.Equal(t, 2000, h.Chart().YAxisMax) }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			h := newTestHolder()
			_, err := h.Step(tt.field, tt.steps)
			require.NoError(t, err)
			tt.check(t, h)
		})
	}
}

func TestHolder_StepUnknownField(t *testing.T) {
	h := newTestHolder()
	_, err := h.Step("lead_time", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	assert.Zero(t, h.Version())
}

func TestHolder_StepReceiving(t *testing.T) {
	h := newTestHolder()

	in, err := h.StepReceiving(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 110, in.WeeklyReceiving[3])

	in, err = h.StepReceiving(3, -1000)
	require.NoError(t, err)
	assert.Equal(t, 0, in.WeeklyReceiving[3])

	_, err = h.StepReceiving(12, 1)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestHolder_HugeStepsSaturateAtBounds(t *testing.T) {
	tests := []struct {
		name  string
		field string
		steps int
		want  func(in domain.SimulationInputs, chart domain.ChartSettings) int
		bound int
	}{
		{"demand up", FieldWeeklyDemand, math.MaxInt/10 + 1, func(in domain.SimulationInputs, _ domain.ChartSettings) int { return in.WeeklyDemand }, 9999},
		{"demand down", FieldWeeklyDemand, math.MinInt/10 - 1, func(in domain.SimulationInputs, _ domain.ChartSettings) int { return in.WeeklyDemand }, 0},
		{"safety weeks up", FieldSafetyStockWeeks, math.MaxInt, func(in domain.SimulationInputs, _ domain.ChartSettings) int { return in.SafetyStockWeeks }, 12},
		{"initial stock up", FieldInitialStock, math.MaxInt / 50, func(in domain.SimulationInputs, _ domain.ChartSettings) int { return in.InitialStock }, 9999},
		{"y axis down", FieldYAxisMax, math.MinInt, func(_ domain.SimulationInputs, c domain.ChartSettings) int { return c.YAxisMax }, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHolder()
			in, err := h.Step(tt.field, tt.steps)
			require.NoError(t, err)
			assert.Equal(t, tt.bound, tt.want(in, h.Chart()))
		})
	}
}

func TestHolder_HugeReceivingDeltaSaturates(t *testing.T) {
	h := newTestHolder()

	in, err := h.StepReceiving(3, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, 9999, in.WeeklyReceiving[3])

	in, err = h.StepReceiving(3, math.MinInt)
	require.NoError(t, err)
	assert.Equal(t, 0, in.WeeklyReceiving[3])
}

func TestSaturatingArithmetic(t *testing.T) {
	assert.Equal(t, math.MaxInt, saturatingAdd(100, math.MaxInt))
	assert.Equal(t, math.MinInt, saturatingAdd(-1, math.MinInt))
	assert.Equal(t, 5, saturatingAdd(10, -5))
	assert.Equal(t, math.MaxInt, saturatingMul(10, math.MaxInt/10+1))
	assert.Equal(t, math.MinInt, saturatingMul(10, math.MinInt/10-1))
	assert.Equal(t, -30, saturatingMul(10, -3))
}

func TestHolder_Load(t *testing.T) {
	h := newTestHolder()

	in, err := h.Load(domain.SimulationInputs{
		WeeklyDemand:     -3,
		SafetyStockWeeks: 4,
		InitialStock:     800,
		WeeklyReceiving:  uniform(12, 20000),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, in.WeeklyDemand)
	assert.Equal(t, 4, in.SafetyStockWeeks)
	assert.Equal(t, 800, in.InitialStock)
	assert.Equal(t, uniform(12, 9999), in.WeeklyReceiving)
	assert.Len(t, h.DrainNotices(), 13)
	assert.Equal(t, uint64(1), h.Version())
}

func TestHolder_LoadRejectsWrongLength(t *testing.T) {
	h := newTestHolder()
	before := h.Inputs()

	_, err := h.Load(domain.SimulationInputs{WeeklyReceiving: uniform(3, 1)})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
	assert.Equal(t, before, h.Inputs())
}

func TestRestore_RoundTripsState(t *testing.T) {
	h := newTestHolder()
	h.SetWeeklyDemand(70)
	h.SetYAxisFixed(true)
	_, err := h.SetReceiving(2, 5)
	require.NoError(t, err)

	restored, err := Restore(domain.DefaultLimits(), h.State("abc"))
	require.NoError(t, err)

	assert.Equal(t, h.Inputs(), restored.Inputs())
	assert.Equal(t, h.Chart(), restored.Chart())
	assert.Equal(t, h.Version(), restored.Version())
	assert.Empty(t, restored.DrainNotices())
}

func TestRestore_HorizonMismatch(t *testing.T) {
	state := newTestHolder().State("abc")
	limits := domain.DefaultLimits()
	limits.Weeks = 8

	_, err := Restore(limits, state)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}
