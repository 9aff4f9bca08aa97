package pricing

// BreakevenInfinite is returned when per-serve revenue is zero or negative:
// the position never breaks even.
const BreakevenInfinite = int64(-1)

// Breakeven returns the number of serves needed to recoup costSats at
// revenuePerServe sats per serve, rounded up.
func Breakeven(costSats, revenuePerServe int64) int64 {
	if revenuePerServe <= 0 {
		return BreakevenInfinite
	}
	return (costSats + revenuePerServe - 1) / revenuePerServe
}

// ROIReport summarizes a position's return relative to its cost.
type ROIReport struct {
	CostSats         int64   `json:"cost_sats"`
	CurrentValueSats int64   `json:"current_value_sats"`
	ServingRevenue   int64   `json:"serving_revenue_sats"`
	UnrealizedPnL    int64   `json:"unrealized_pnl_sats"`
	UnrealizedPct    float64 `json:"unrealized_pct"`
	TotalReturnPct   float64 `json:"total_return_pct"`
}

// ROI computes unrealized P&L and total-return percentages relative to cost.
// A zero cost yields a zero-percent report rather than dividing by zero.
func ROI(costSats, currentValueSats, servingRevenueSats int64) ROIReport {
	report := ROIReport{
		CostSats:         costSats,
		CurrentValueSats: currentValueSats,
		ServingRevenue:   servingRevenueSats,
		UnrealizedPnL:    currentValueSats - costSats,
	}
	if costSats == 0 {
		return report
	}

	cost := float64(costSats)
	report.UnrealizedPct = float64(report.UnrealizedPnL) / cost * 100
	report.TotalReturnPct = float64(currentValueSats+servingRevenueSats-costSats) / cost * 100
	return report
}
