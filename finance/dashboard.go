package finance

import (
	"time"

	"finboard/backend/models"
)

// Snapshot is everything stored for one user that the overview needs.
type Snapshot struct {
	Transactions []models.Transaction
	Budgets      []models.Budget
	Goals        []models.SavingGoal
	// Cash overrides the balance derived from all transactions when set.
	Cash    *float64
	TaxRate float64
	Month   time.Time
}

type GoalSummary struct {
	Goal     models.SavingGoal `json:"goal"`
	Timeline GoalTimeline      `json:"timeline"`
}

type Dashboard struct {
	Month       string          `json:"month"`
	Cash        float64         `json:"cash"`
	Profit      Profit          `json:"profit"`
	MonthlyBurn float64         `json:"monthlyBurn"`
	Runway      Months          `json:"runway"`
	Risk        Risk            `json:"risk"`
	Categories  []CategoryTotal `json:"categories"`
	BudgetUsage []BudgetUsage   `json:"budgetUsage"`
	Goals       []GoalSummary   `json:"goals"`
	TaxReserve  TaxReserve      `json:"taxReserve"`
	Alerts      []Alert         `json:"alerts"`
	Insights    []string        `json:"insights"`
}

// Baseline derives the what-if starting point for the snapshot's month.
func (s Snapshot) Baseline(now time.Time) Baseline {
	m := s.Month
	if m.IsZero() {
		m = now
	}
	income, expense := MonthlyTotals(s.Transactions, m)
	cash := Totals(s.Transactions).Net
	if s.Cash != nil {
		cash = *s.Cash
	}
	return Baseline{Cash: cash, Income: income, Expenses: expense, TaxRate: s.TaxRate}
}

// BuildDashboard runs the aggregator and projection engine over a snapshot.
func BuildDashboard(s Snapshot, policy GoalPolicy, now time.Time) Dashboard {
	m := s.Month
	if m.IsZero() {
		m = now
	}
	b := s.Baseline(now)
	profit := ComputeMonthlyProfit(b.Income, b.Expenses, b.TaxRate)
	runway := ComputeRunway(b.Cash, b.Expenses, b.Income, b.TaxRate)
	usage := SpendVsLimit(s.Budgets, s.Transactions, m)
	tax := ComputeTaxReserve(b.Income, b.TaxRate*100)

	goals := make([]GoalSummary, 0, len(s.Goals))
	for _, g := range s.Goals {
		goals = append(goals, GoalSummary{
			Goal: g,
			Timeline: ComputeGoalTimeline(GoalInput{
				TargetAmount:        g.TargetAmount,
				SavedAmount:         g.SavedAmount,
				MonthlyContribution: g.MonthlyContribution,
				TargetDate:          g.TargetDate,
			}, now, policy),
		})
	}

	return Dashboard{
		Month:       MonthStart(m).Format("2006-01"),
		Cash:        RoundCurrency(b.Cash),
		Profit:      profit,
		MonthlyBurn: RoundCurrency(MonthlyBurn(b.Expenses, b.Income, b.TaxRate)),
		Runway:      runway,
		Risk:        ClassifyRisk(runway),
		Categories:  SortedCategories(AggregateByCategory(InMonth(s.Transactions, m)), ByExpense),
		BudgetUsage: usage,
		Goals:       goals,
		TaxReserve:  tax,
		Alerts:      BuildAlerts(usage, runway, tax),
		Insights: PlanningInsights(Plan{
			Revenue:       b.Income,
			MonthlyProfit: profit.Profit,
			Budgets:       s.Budgets,
			Goals:         s.Goals,
		}, now),
	}
}
