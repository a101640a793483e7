package finance

// Baseline is the monthly snapshot every what-if calculation starts from.
type Baseline struct {
	Cash     float64 `json:"cash"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	TaxRate  float64 `json:"taxRate"`
}

type BudgetImpact struct {
	Expenses       float64 `json:"expenses"`
	Profit         float64 `json:"profit"`
	Margin         float64 `json:"margin"`
	MonthlySurplus float64 `json:"monthlySurplus"`
	Runway         Months  `json:"runway"`
	Risk           Risk    `json:"risk"`
}

// ComputeBudgetImpact applies delta (new limit minus current limit) to the
// baseline expenses and re-derives profit, runway and risk.
func ComputeBudgetImpact(b Baseline, delta float64) BudgetImpact {
	expenses := b.Expenses + delta
	p := ComputeMonthlyProfit(b.Income, expenses, b.TaxRate)
	runway := ComputeRunway(b.Cash, expenses, b.Income, b.TaxRate)
	return BudgetImpact{
		Expenses:       RoundCurrency(expenses),
		Profit:         p.Profit,
		Margin:         p.Margin,
		MonthlySurplus: RoundCurrency(b.Income - expenses),
		Runway:         runway,
		Risk:           ClassifyRisk(runway),
	}
}

// Current is the baseline with no change applied.
func (b Baseline) Current() BudgetImpact {
	return ComputeBudgetImpact(b, 0)
}

type GoalImpact struct {
	FreeCashReduction float64 `json:"freeCashReduction"`
	FreeCashAfter     float64 `json:"freeCashAfter"`
	CurrentRunway     Months  `json:"currentRunway"`
	ProjectedRunway   Months  `json:"projectedRunway"`
	ProjectedRisk     Risk    `json:"projectedRisk"`
}

// ComputeGoalImpact treats a monthly goal contribution as extra spending.
func ComputeGoalImpact(b Baseline, contribution float64) GoalImpact {
	current := b.Current()
	projected := ComputeBudgetImpact(b, contribution)
	return GoalImpact{
		FreeCashReduction: RoundCurrency(contribution),
		FreeCashAfter:     projected.Profit,
		CurrentRunway:     current.Runway,
		ProjectedRunway:   projected.Runway,
		ProjectedRisk:     projected.Risk,
	}
}
