// internal/domain/models.go
package domain

import "time"

// SimulationInputs holds the four user-adjustable parameters of a simulation
type SimulationInputs struct {
	WeeklyDemand     int   `json:"weekly_demand" yaml:"weekly_demand"`
	SafetyStockWeeks int   `json:"safety_stock_weeks" yaml:"safety_stock_weeks"`
	InitialStock     int   `json:"initial_stock" yaml:"initial_stock"`
	WeeklyReceiving  []int `json:"weekly_receiving" yaml:"weekly_receiving"`
}

// Clone returns a deep copy so callers never share the receiving slice
func (in SimulationInputs) Clone() SimulationInputs {
	out := in
	out.WeeklyReceiving = append([]int(nil), in.WeeklyReceiving...)
	return out
}

// SafetyStockThreshold is always derived from the current demand and coverage weeks.
func (in SimulationInputs) SafetyStockThreshold() int {
	return in.WeeklyDemand * in.SafetyStockWeeks
}

// ChartSettings controls the vertical scale of the trajectory chart. Presentation only.
type ChartSettings struct {
	YAxisFixed bool `json:"y_axis_fixed"`
	YAxisMax   int  `json:"y_axis_max"`
}

// WeekRecord is one row of the derived trajectory
type WeekRecord struct {
	WeekIndex            int `json:"week_index"`
	WeekLabel            int `json:"week"`
	StockLevel           int `json:"stock_level"`
	RunningBalance       int `json:"running_balance"` // unclamped, may be negative
	Inbound              int `json:"inbound"`
	Outbound             int `json:"outbound"`
	SafetyStockThreshold int `json:"safety_stock_threshold"`
}

// Classify returns the display classification of this row alone.
func (r WeekRecord) Classify() RowStatus {
	switch {
	case r.StockLevel == 0:
		return RowStockout
	case r.StockLevel <= r.SafetyStockThreshold:
		return RowWarning
	default:
		return RowAdequate
	}
}

// Derivation is the full output of one trajectory derivation
type Derivation struct {
	Trajectory           []WeekRecord `json:"trajectory"`
	SafetyStockThreshold int          `json:"safety_stock_threshold"`
	MinStockLevel        int          `json:"min_stock_level"`
	Status               StockStatus  `json:"status"`
}

// Insights are the explanatory figures shown next to the safety stock formula
type Insights struct {
	Formula           string   `json:"formula"`
	WeeksOfCover      *float64 `json:"weeks_of_cover"`      // nil when demand is zero
	SafetyZonePercent *float64 `json:"safety_zone_percent"` // nil when initial stock is zero
}

// ClampNotice reports an input that was pulled back into its bounds
type ClampNotice struct {
	Field     string `json:"field"`
	Requested int    `json:"requested"`
	Applied   int    `json:"applied"`
}

// SessionState is what a session store keeps for one UI root
type SessionState struct {
	ID        string           `json:"id"`
	Inputs    SimulationInputs `json:"inputs"`
	Chart     ChartSettings    `json:"chart"`
	Version   uint64           `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// WeekView is a trajectory row as handed to a presentation adapter
type WeekView struct {
	WeekRecord
	Label  string    `json:"label"`
	Status RowStatus `json:"status"`
}

// SimulationView aggregates everything a UI needs to render one simulation
type SimulationView struct {
	SessionID            string           `json:"session_id,omitempty"`
	Version              uint64           `json:"version"`
	Inputs               SimulationInputs `json:"inputs"`
	Chart                ChartSettings    `json:"chart"`
	SafetyStockThreshold int              `json:"safety_stock_threshold"`
	MinStockLevel        int              `json:"min_stock_level"`
	Status               StockStatus      `json:"status"`
	StatusLabel          string           `json:"status_label"`
	Weeks                []WeekView       `json:"weeks"`
	Insights             Insights         `json:"insights"`
	Warnings             []ClampNotice    `json:"warnings,omitempty"`
}
