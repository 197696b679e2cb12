package domain

import "fmt"

// Limits bounds every user-adjustable quantity and fixes the planning horizon
type Limits struct {
	Weeks               int // W, length of the receiving schedule and the trajectory
	MaxQuantity         int // ceiling for demand, initial stock and receiving
	MaxSafetyStockWeeks int
	YAxisMin            int
	YAxisMax            int
}

// Defaults are the values a fresh simulation starts from
type Defaults struct {
	WeeklyDemand     int
	SafetyStockWeeks int
	InitialStock     int
	WeeklyReceiving  int // applied to every week
	YAxisMax         int
}

// DefaultLimits returns the limits of the reference calculator.
func DefaultLimits() Limits {
	return Limits{
		Weeks:               12,
		MaxQuantity:         9999,
		MaxSafetyStockWeeks: 12,
		YAxisMin:            100,
		YAxisMax:            99999,
	}
}

// DefaultDefaults returns the starting inputs of the reference calculator.
func DefaultDefaults() Defaults {
	return Defaults{
		WeeklyDemand:     100,
		SafetyStockWeeks: 2,
		InitialStock:     500,
		WeeklyReceiving:  100,
		YAxisMax:         1000,
	}
}

// Validate rejects limits no simulation could run under.
func (l Limits) Validate() error {
	if l.Weeks < 1 {
		return fmt.Errorf("weeks must be at least 1, got %d", l.Weeks)
	}
	if l.MaxQuantity < 0 {
		return fmt.Errorf("max quantity cannot be negative, got %d", l.MaxQuantity)
	}
	if l.MaxSafetyStockWeeks < 0 {
		return fmt.Errorf("max safety stock weeks cannot be negative, got %d", l.MaxSafetyStockWeeks)
	}
	if l.YAxisMin < 0 || l.YAxisMax < l.YAxisMin {
		return fmt.Errorf("invalid y axis range [%d, %d]", l.YAxisMin, l.YAxisMax)
	}
	return nil
}
