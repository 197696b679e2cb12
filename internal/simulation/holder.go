package simulation

import (
	"fmt"
	"math"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
)

// Field names used in clamp notices and step requests.
const (
	FieldWeeklyDemand     = "weekly_demand"
	FieldSafetyStockWeeks = "safety_stock_weeks"
	FieldInitialStock     = "initial_stock"
	FieldWeeklyReceiving  = "weekly_receiving"
	FieldYAxisMax         = "y_axis_max"
)

// stepSizes mirror the single-step buttons of the calculator controls.
var stepSizes = map[string]int{
	FieldWeeklyDemand:     10,
	FieldSafetyStockWeeks: 1,
	FieldInitialStock:     50,
	FieldYAxisMax:         100,
}

// StepSize returns the quantity one step moves a field by.
func StepSize(field string) (int, bool) {
	size, ok := stepSizes[field]
	return size, ok
}

// Holder owns one set of simulation inputs and bounds every mutation.
// It is not safe for concurrent use; its owner serializes access.
type Holder struct {
	limits  domain.Limits
	inputs  domain.SimulationInputs
	chart   domain.ChartSettings
	version uint64
	notices []domain.ClampNotice
}

// NewHolder creates a holder at the given defaults, clamped into limits.
func NewHolder(limits domain.Limits, defaults domain.Defaults) *Holder {
	h := &Holder{limits: limits}
	h.inputs = domain.SimulationInputs{
		WeeklyDemand:     h.clamp(FieldWeeklyDemand, defaults.WeeklyDemand, 0, limits.MaxQuantity),
		SafetyStockWeeks: h.clamp(FieldSafetyStockWeeks, defaults.SafetyStockWeeks, 0, limits.MaxSafetyStockWeeks),
		InitialStock:     h.clamp(FieldInitialStock, defaults.InitialStock, 0, limits.MaxQuantity),
		WeeklyReceiving:  make([]int, limits.Weeks),
	}
	receiving := h.clamp(FieldWeeklyReceiving, defaults.WeeklyReceiving, 0, limits.MaxQuantity)
	for i := range h.inputs.WeeklyReceiving {
		h.inputs.WeeklyReceiving[i] = receiving
	}
	h.chart = domain.ChartSettings{
		YAxisMax: h.clamp(FieldYAxisMax, defaults.YAxisMax, limits.YAxisMin, limits.YAxisMax),
	}
	h.notices = nil
	return h
}

// Restore rebuilds a holder from a stored session state.
func Restore(limits domain.Limits, state *domain.SessionState) (*Holder, error) {
	h := &Holder{limits: limits}
	if err := h.replace(state.Inputs); err != nil {
		return nil, err
	}
	h.chart = domain.ChartSettings{
		YAxisFixed: state.Chart.YAxisFixed,
		YAxisMax:   h.clamp(FieldYAxisMax, state.Chart.YAxisMax, limits.YAxisMin, limits.YAxisMax),
	}
	h.version = state.Version
	h.notices = nil
	return h, nil
}

// Inputs returns a copy of the current inputs.
func (h *Holder) Inputs() domain.SimulationInputs {
	return h.inputs.Clone()
}

// Chart returns the current chart settings.
func (h *Holder) Chart() domain.ChartSettings {
	return h.chart
}

// Limits returns the bounds the holder enforces.
func (h *Holder) Limits() domain.Limits {
	return h.limits
}

// Version increments on every mutation. Callers re-derive when it changes.
func (h *Holder) Version() uint64 {
	return h.version
}

// DrainNotices returns clamp notices recorded since the last drain.
func (h *Holder) DrainNotices() []domain.ClampNotice {
	notices := h.notices
	h.notices = nil
	return notices
}

// SetWeeklyDemand clamps v to [0, MaxQuantity].
func (h *Holder) SetWeeklyDemand(v int) domain.SimulationInputs {
	h.inputs.WeeklyDemand = h.clamp(FieldWeeklyDemand, v, 0, h.limits.MaxQuantity)
	return h.touch()
}

// SetSafetyStockWeeks clamps v to [0, MaxSafetyStockWeeks].
func (h *Holder) SetSafetyStockWeeks(v int) domain.SimulationInputs {
	h.inputs.SafetyStockWeeks = h.clamp(FieldSafetyStockWeeks, v, 0, h.limits.MaxSafetyStockWeeks)
	return h.touch()
}

// SetInitialStock clamps v to [0, MaxQuantity].
func (h *Holder) SetInitialStock(v int) domain.SimulationInputs {
	h.inputs.InitialStock = h.clamp(FieldInitialStock, v, 0, h.limits.MaxQuantity)
	return h.touch()
}

// SetReceiving replaces the inbound quantity of one week, leaving the others untouched.
func (h *Holder) SetReceiving(week, v int) (domain.SimulationInputs, error) {
	if err := h.checkWeek(week); err != nil {
		return h.Inputs(), err
	}
	h.inputs.WeeklyReceiving[week] = h.clamp(receivingField(week), v, 0, h.limits.MaxQuantity)
	return h.touch(), nil
}

// SetAllReceiving clamps v once and assigns it to every week.
func (h *Holder) SetAllReceiving(v int) domain.SimulationInputs {
	clamped := h.clamp(FieldWeeklyReceiving, v, 0, h.limits.MaxQuantity)
	for i := range h.inputs.WeeklyReceiving {
		h.inputs.WeeklyReceiving[i] = clamped
	}
	return h.touch()
}

// MatchReceivingToDemand sets every week's receiving to the current demand.
func (h *Holder) MatchReceivingToDemand() domain.SimulationInputs {
	return h.SetAllReceiving(h.inputs.WeeklyDemand)
}

// ResetReceiving sets every week's receiving to zero.
func (h *Holder) ResetReceiving() domain.SimulationInputs {
	return h.SetAllReceiving(0)
}

// SetYAxisFixed toggles a fixed chart scale. It never affects derivation.
func (h *Holder) SetYAxisFixed(fixed bool) domain.ChartSettings {
	h.chart.YAxisFixed = fixed
	h.version++
	return h.chart
}

// SetYAxisMax sets the fixed chart ceiling.
func (h *Holder) SetYAxisMax(v int) domain.ChartSettings {
	h.chart.YAxisMax = h.clamp(FieldYAxisMax, v, h.limits.YAxisMin, h.limits.YAxisMax)
	h.version++
	return h.chart
}

// Step moves a scalar field by steps × its step size, then clamps.
func (h *Holder) Step(field string, steps int) (domain.SimulationInputs, error) {
	size, ok := StepSize(field)
	if !ok {
		return h.Inputs(), fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	delta := saturatingMul(size, steps)

	switch field {
	case FieldWeeklyDemand:
		return h.SetWeeklyDemand(saturatingAdd(h.inputs.WeeklyDemand, delta)), nil
	case FieldSafetyStockWeeks:
		return h.SetSafetyStockWeeks(saturatingAdd(h.inputs.SafetyStockWeeks, delta)), nil
	case FieldInitialStock:
		return h.SetInitialStock(saturatingAdd(h.inputs.InitialStock, delta)), nil
	default:
		h.SetYAxisMax(saturatingAdd(h.chart.YAxisMax, delta))
		return h.Inputs(), nil
	}
}

// StepReceiving adds delta to one week's receiving, then clamps.
func (h *Holder) StepReceiving(week, delta int) (domain.SimulationInputs, error) {
	if err := h.checkWeek(week); err != nil {
		return h.Inputs(), err
	}
	return h.SetReceiving(week, saturatingAdd(h.inputs.WeeklyReceiving[week], delta))
}

// Load replaces all four inputs from an external snapshot.
func (h *Holder) Load(in domain.SimulationInputs) (domain.SimulationInputs, error) {
	if err := h.replace(in); err != nil {
		return h.Inputs(), err
	}
	return h.touch(), nil
}

// State snapshots the holder for a session store.
func (h *Holder) State(id string) *domain.SessionState {
	return &domain.SessionState{
		ID:      id,
		Inputs:  h.Inputs(),
		Chart:   h.chart,
		Version: h.version,
	}
}

func (h *Holder) replace(in domain.SimulationInputs) error {
	if len(in.WeeklyReceiving) != h.limits.Weeks {
		return fmt.Errorf("%w: weekly receiving has %d entries, want %d",
			domain.ErrMalformedInput, len(in.WeeklyReceiving), h.limits.Weeks)
	}

	next := domain.SimulationInputs{
		WeeklyDemand:     h.clamp(FieldWeeklyDemand, in.WeeklyDemand, 0, h.limits.MaxQuantity),
		SafetyStockWeeks: h.clamp(FieldSafetyStockWeeks, in.SafetyStockWeeks, 0, h.limits.MaxSafetyStockWeeks),
		InitialStock:     h.clamp(FieldInitialStock, in.InitialStock, 0, h.limits.MaxQuantity),
		WeeklyReceiving:  make([]int, len(in.WeeklyReceiving)),
	}
	for i, v := range in.WeeklyReceiving {
		next.WeeklyReceiving[i] = h.clamp(receivingField(i), v, 0, h.limits.MaxQuantity)
	}
	h.inputs = next
	return nil
}

func (h *Holder) checkWeek(week int) error {
	if week < 0 || week >= h.limits.Weeks {
		return fmt.Errorf("%w: %d not in [0, %d)", domain.ErrIndexOutOfRange, week, h.limits.Weeks)
	}
	return nil
}

func (h *Holder) touch() domain.SimulationInputs {
	h.version++
	return h.Inputs()
}

func (h *Holder) clamp(field string, v, lo, hi int) int {
	clamped := max(lo, min(hi, v))
	if clamped != v {
		h.notices = append(h.notices, domain.ClampNotice{Field: field, Requested: v, Applied: clamped})
	}
	return clamped
}

func receivingField(week int) string {
	return fmt.Sprintf("%s[%d]", FieldWeeklyReceiving, week)
}

// saturatingAdd returns a+b pinned to the int range instead of wrapping.
func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	default:
		return a + b
	}
}

// saturatingMul returns size*steps pinned to the int range. size is positive.
func saturatingMul(size, steps int) int {
	switch {
	case steps > math.MaxInt/size:
		return math.MaxInt
	case steps < math.MinInt/size:
		return math.MinInt
	default:
		return size * steps
	}
}
