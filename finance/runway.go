package finance

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// MonthlyBurn is net cash leaving the business each month. The tax reserve
// on revenue counts as spending.
func MonthlyBurn(expenses, revenue, taxRate float64) float64 {
	return expenses + revenue*taxRate - revenue
}

// ComputeRunway returns how many months cash lasts at the current burn.
// A non-positive burn means the business is cash-flow positive and the
// runway is unbounded.
func ComputeRunway(cash, monthlyExpenses, monthlyRevenue, taxRate float64) Months {
	burn := MonthlyBurn(monthlyExpenses, monthlyRevenue, taxRate)
	if burn <= 0 {
		return Unbounded()
	}
	if cash <= 0 {
		return 0
	}
	return Months(cash / burn)
}

// ClassifyRisk buckets a runway: under 3 months is high, under 6 medium.
// Each band includes its lower bound.
func ClassifyRisk(runway Months) Risk {
	switch {
	case runway.IsInf():
		return RiskLow
	case runway < 3:
		return RiskHigh
	case runway < 6:
		return RiskMedium
	default:
		return RiskLow
	}
}
