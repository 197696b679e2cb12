package domain

import (
	"fmt"
	"strings"
)

// StockStatus is the overall classification of a trajectory, derived from its minimum.
type StockStatus string

const (
	StatusStockout    StockStatus = "stockout"
	StatusBelowSafety StockStatus = "below_safety"
	StatusAdequate    StockStatus = "adequate"
)

// RowStatus is the per-week display classification.
type RowStatus string

const (
	RowStockout RowStatus = "stockout"
	RowWarning  RowStatus = "warning"
	RowAdequate RowStatus = "adequate"
)

var stockStatusLabels = map[StockStatus]string{
	StatusStockout:    "Stockout",
	StatusBelowSafety: "Below safety stock",
	StatusAdequate:    "Adequate",
}

// StockStatusLabel returns a human-readable label for a stock status.
func StockStatusLabel(status StockStatus) string {
	if label, ok := stockStatusLabels[status]; ok {
		return label
	}

	return "Unknown"
}

var stockStatusSeverity = map[StockStatus]int{
	StatusAdequate:    0,
	StatusBelowSafety: 1,
	StatusStockout:    2,
}

// AtLeast reports whether s is as bad as or worse than other.
func (s StockStatus) AtLeast(other StockStatus) bool {
	return stockStatusSeverity[s] >= stockStatusSeverity[other]
}

// ParseStockStatus returns the status for a given label or code (case-insensitive).
func ParseStockStatus(value string) (StockStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for status, label := range stockStatusLabels {
		if normalized == string(status) || normalized == strings.ToLower(label) {
			return status, true
		}
	}

	return "", false
}

// WeekLabel renders a zero-based week index the way users see it.
func WeekLabel(index int) string {
	return fmt.Sprintf("Week %d", index+1)
}
