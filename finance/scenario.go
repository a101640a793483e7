package finance

import (
	"fmt"
	"math"
)

type ScenarioInput struct {
	Revenue            float64
	Expenses           float64
	Cash               float64
	TaxRate            float64
	RevenueChangePct   float64
	AdditionalExpenses []float64
	AdjustTaxReserve   bool
}

type ScenarioImpact struct {
	NewRevenue     float64  `json:"newRevenue"`
	NewExpenses    float64  `json:"newExpenses"`
	TaxReserve     float64  `json:"taxReserve"`
	MonthlyProfit  float64  `json:"monthlyProfit"`
	PreviousProfit float64  `json:"previousProfit"`
	Runway         Months   `json:"runway"`
	Risk           Risk     `json:"risk"`
	Warnings       []string `json:"warnings"`
	Summary        string   `json:"summary"`
}

// ComputeScenario applies a revenue change and extra fixed costs to the
// baseline and reports the resulting profit, runway and warnings.
func ComputeScenario(in ScenarioInput) ScenarioImpact {
	rate := 0.0
	if in.AdjustTaxReserve {
		rate = in.TaxRate
	}

	newRevenue := in.Revenue * (1 + in.RevenueChangePct/100)
	var additional float64
	for _, e := range in.AdditionalExpenses {
		additional += e
	}
	newExpenses := in.Expenses + additional

	now := ComputeMonthlyProfit(newRevenue, newExpenses, rate)
	before := ComputeMonthlyProfit(in.Revenue, in.Expenses, rate)
	runway := ComputeRunway(in.Cash, newExpenses, newRevenue, rate)

	warnings := []string{}
	if runway < 3 {
		warnings = append(warnings, "Runway drops below 3 months: high risk")
	}
	if now.Profit < 0 {
		warnings = append(warnings, "Profit becomes negative: unsustainable")
	}
	if additional > in.Expenses*0.2 {
		warnings = append(warnings, "Fixed costs increase by more than 20%")
	}

	return ScenarioImpact{
		NewRevenue:     RoundCurrency(newRevenue),
		NewExpenses:    RoundCurrency(newExpenses),
		TaxReserve:     now.Taxes,
		MonthlyProfit:  now.Profit,
		PreviousProfit: before.Profit,
		Runway:         runway,
		Risk:           ClassifyRisk(runway),
		Warnings:       warnings,
		Summary:        scenarioSummary(in, newRevenue, now.Profit, runway),
	}
}

func scenarioSummary(in ScenarioInput, newRevenue, profit float64, runway Months) string {
	switch {
	case runway >= 6 && profit > 0:
		return fmt.Sprintf("This plan is sustainable. You'll maintain %s months of runway with a healthy profit margin.", runway)
	case runway >= 3 && profit > 0:
		pct := math.Max(math.Ceil(Percent(in.Expenses*1.1-newRevenue, in.Revenue)), 1)
		return fmt.Sprintf("This plan is workable but tight. Consider increasing revenue by %.0f%% to extend runway to 6 months.", pct)
	case profit < 0:
		return fmt.Sprintf("This plan is not sustainable, expenses exceed revenue. Reduce costs by %s/month or increase revenue to break even.", FormatWhole(math.Abs(profit)))
	default:
		return "Runway is below 3 months, which is high risk. Reduce expenses or increase revenue immediately."
	}
}

type RevenueGrowthInput struct {
	Revenue     float64
	Expenses    float64
	Cash        float64
	GrowthPct   float64
	NewExpenses float64
	TaxRate     float64
}

type RevenueGrowth struct {
	NewRevenue       float64 `json:"newRevenue"`
	AdjustedExpenses float64 `json:"adjustedExpenses"`
	NewProfit        float64 `json:"newProfit"`
	CurrentProfit    float64 `json:"currentProfit"`
	ProfitChange     float64 `json:"profitChange"`
	NewRunway        Months  `json:"newRunway"`
}

// ComputeRevenueGrowth models growing revenue by GrowthPct while taking on
// NewExpenses of extra monthly cost.
func ComputeRevenueGrowth(in RevenueGrowthInput) RevenueGrowth {
	newRevenue := in.Revenue * (1 + in.GrowthPct/100)
	adjusted := in.Expenses + in.NewExpenses
	next := ComputeMonthlyProfit(newRevenue, adjusted, in.TaxRate)
	current := ComputeMonthlyProfit(in.Revenue, in.Expenses, in.TaxRate)
	return RevenueGrowth{
		NewRevenue:       RoundCurrency(newRevenue),
		AdjustedExpenses: RoundCurrency(adjusted),
		NewProfit:        next.Profit,
		CurrentProfit:    current.Profit,
		ProfitChange:     RoundCurrency(next.Profit - current.Profit),
		NewRunway:        ComputeRunway(in.Cash, adjusted, newRevenue, in.TaxRate),
	}
}

type RevenueDrop struct {
	AdjustedRevenue  float64 `json:"adjustedRevenue"`
	MonthlyBurn      float64 `json:"monthlyBurn"`
	Runway           Months  `json:"runway"`
	Risk             Risk    `json:"risk"`
	BreakEvenRevenue float64 `json:"breakEvenRevenue"`
}

// ComputeRevenueDrop stress-tests runway with revenue falling to retainedPct
// percent of its current level.
func ComputeRevenueDrop(cash, expenses, revenue, retainedPct float64) RevenueDrop {
	retainedPct = math.Min(math.Max(retainedPct, 0), 100)
	adjusted := revenue * retainedPct / 100
	runway := ComputeRunway(cash, expenses, adjusted, 0)
	return RevenueDrop{
		AdjustedRevenue:  RoundCurrency(adjusted),
		MonthlyBurn:      RoundCurrency(MonthlyBurn(expenses, adjusted, 0)),
		Runway:           runway,
		Risk:             ClassifyRisk(runway),
		BreakEvenRevenue: RoundCurrency(expenses),
	}
}
