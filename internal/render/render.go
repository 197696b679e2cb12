package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	adequateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	stockoutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var rowStatusLabels = map[domain.RowStatus]string{
	domain.RowStockout: "STOCKOUT",
	domain.RowWarning:  "WARNING",
	domain.RowAdequate: "OK",
}

// Report renders the summary block followed by the weekly table.
func Report(view *domain.SimulationView) string {
	return lipgloss.JoinVertical(lipgloss.Left, Summary(view), "", Trajectory(view))
}

// Trajectory renders one row per week.
func Trajectory(view *domain.SimulationView) string {
	rows := make([][]string, 0, len(view.Weeks))
	for _, w := range view.Weeks {
		rows = append(rows, []string{
			w.Label,
			strconv.Itoa(w.Inbound),
			strconv.Itoa(w.Outbound),
			strconv.Itoa(w.StockLevel),
			strconv.Itoa(w.RunningBalance),
			strconv.Itoa(w.SafetyStockThreshold),
			rowStatusLabels[w.Status],
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers("Week", "Inbound", "Outbound", "Stock", "Balance", "Safety stock", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 6 && row >= 0 && row < len(view.Weeks) {
				return rowStyle(view.Weeks[row].Status).Padding(0, 1)
			}
			return cellStyle
		})

	return t.Render()
}

// Summary renders the headline figures of a derivation.
func Summary(view *domain.SimulationView) string {
	var b strings.Builder

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("Status", statusStyle(view.Status).Render(view.StatusLabel))
	line("Safety stock", view.Insights.Formula)
	line("Lowest stock", strconv.Itoa(view.MinStockLevel))
	line("Weeks of cover", formatOptional(view.Insights.WeeksOfCover, ""))
	line("Safety zone", formatOptional(view.Insights.SafetyZonePercent, "%"))

	for _, w := range view.Warnings {
		b.WriteString(warningStyle.Render(fmt.Sprintf("clamped %s: %d -> %d", w.Field, w.Requested, w.Applied)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatOptional(v *float64, suffix string) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + suffix
}

func statusStyle(s domain.StockStatus) lipgloss.Style {
	switch s {
	case domain.StatusStockout:
		return stockoutStyle
	case domain.StatusBelowSafety:
		return warningStyle
	default:
		return adequateStyle
	}
}

func rowStyle(s domain.RowStatus) lipgloss.Style {
	switch s {
	case domain.RowStockout:
		return stockoutStyle
	case domain.RowWarning:
		return warningStyle
	default:
		return adequateStyle
	}
}
