package finance

type ProfitState string

const (
	ProfitHealthy  ProfitState = "healthy"
	ProfitPositive ProfitState = "positive"
	ProfitNegative ProfitState = "negative"
)

// Profit is one month of after-tax profit. Taxes are a flat-rate estimate.
type Profit struct {
	Income   float64     `json:"income"`
	Expenses float64     `json:"expenses"`
	Taxes    float64     `json:"taxes"`
	Profit   float64     `json:"profit"`
	Margin   float64     `json:"margin"`
	State    ProfitState `json:"state"`
}

// ComputeMonthlyProfit derives profit and margin. Margin is 0 when there is
// no income.
func ComputeMonthlyProfit(income, expenses, taxRate float64) Profit {
	taxes := income * taxRate
	profit := income - expenses - taxes
	margin := Percent(profit, income)
	if income <= 0 {
		margin = 0
	}

	state := ProfitNegative
	switch {
	case margin > 20:
		state = ProfitHealthy
	case margin > 0:
		state = ProfitPositive
	}

	return Profit{
		Income:   RoundCurrency(income),
		Expenses: RoundCurrency(expenses),
		Taxes:    RoundCurrency(taxes),
		Profit:   RoundCurrency(profit),
		Margin:   RoundTo(margin, 1),
		State:    state,
	}
}
