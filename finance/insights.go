package finance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"finboard/backend/models"
)

// Plan is the budgeting and saving picture the planning insights look at.
type Plan struct {
	Revenue       float64
	MonthlyProfit float64
	Budgets       []models.Budget
	Goals         []models.SavingGoal
}

// PlanningInsights returns plain-language warnings about a plan.
func PlanningInsights(p Plan, now time.Time) []string {
	out := []string{}

	var totalBudgets, contributions float64
	for _, b := range p.Budgets {
		totalBudgets += b.MonthlyLimit
	}
	for _, g := range p.Goals {
		if !g.IsPaused {
			contributions += g.MonthlyContribution
		}
	}

	if totalBudgets > p.Revenue*0.8 {
		out = append(out, "Your total budgets exceed 80% of revenue. Consider reducing some categories to maintain profitability.")
	}
	if totalBudgets+contributions > p.Revenue {
		out = append(out, fmt.Sprintf(
			"Your goals and budgets total %s/month, exceeding your revenue. Consider pausing a goal or reducing budgets.",
			FormatWhole(totalBudgets+contributions)))
	}
	if contributions > 0 && contributions > p.MonthlyProfit*0.5 {
		msg := fmt.Sprintf("Your goal contributions (%s/month) exceed half of your monthly profit.", FormatWhole(contributions))
		if p.MonthlyProfit > 0 {
			msg = fmt.Sprintf("Your goal contributions (%s/month) are %.0f%% of your profit. This is aggressive but manageable.",
				FormatWhole(contributions), Percent(contributions, p.MonthlyProfit))
		}
		out = append(out, msg)
	}

	for _, g := range p.Goals {
		if g.IsPaused || g.TargetDate == nil {
			continue
		}
		remaining := g.TargetAmount - g.SavedAmount
		if remaining <= 0 {
			continue
		}
		months := MonthsUntil(*g.TargetDate, now)
		if months <= 0 {
			out = append(out, fmt.Sprintf("%q is past its target date with %s still to save. Consider extending the deadline.",
				g.Name, FormatWhole(remaining)))
			continue
		}
		needed := math.Ceil(remaining / float64(months))
		if needed > g.MonthlyContribution*1.2 {
			out = append(out, fmt.Sprintf(
				"%q needs %s/month to reach target, but you're contributing %s. Consider increasing contribution or extending the deadline.",
				g.Name, FormatWhole(needed), FormatWhole(g.MonthlyContribution)))
		}
	}
	return out
}

type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
	SeverityBlue   Severity = "blue"
)

var severityRank = map[Severity]int{SeverityRed: 0, SeverityYellow: 1, SeverityBlue: 2}

type Alert struct {
	Severity   Severity `json:"severity"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	ActionHref string   `json:"actionHref,omitempty"`
}

const maxAlerts = 3

// BuildAlerts collects overview alerts, most severe first, at most three.
func BuildAlerts(usage []BudgetUsage, runway Months, tax TaxReserve) []Alert {
	out := []Alert{}
	for _, u := range usage {
		switch {
		case u.Spent > u.Limit:
			out = append(out, Alert{
				Severity:   SeverityRed,
				Title:      u.Category + " budget exceeded",
				Message:    fmt.Sprintf("You've spent %s of your %s %s budget.", FormatWhole(u.Spent), FormatWhole(u.Limit), u.Category),
				ActionHref: "/dashboard/planning",
			})
		case u.Limit > 0 && u.PercentUsed >= 80:
			out = append(out, Alert{
				Severity:   SeverityYellow,
				Title:      u.Category + " budget almost used",
				Message:    fmt.Sprintf("%.0f%% of your %s budget is used.", u.PercentUsed, u.Category),
				ActionHref: "/dashboard/planning",
			})
		}
	}

	switch ClassifyRisk(runway) {
	case RiskHigh:
		out = append(out, Alert{
			Severity: SeverityRed,
			Title:    "Runway below 3 months",
			Message:  fmt.Sprintf("At the current burn your cash lasts %s months.", runway),
		})
	case RiskMedium:
		out = append(out, Alert{
			Severity: SeverityYellow,
			Title:    "Runway below 6 months",
			Message:  fmt.Sprintf("At the current burn your cash lasts %s months.", runway),
		})
	}

	if tax.Monthly > 0 {
		out = append(out, Alert{
			Severity: SeverityBlue,
			Title:    "Set aside taxes",
			Message:  fmt.Sprintf("Reserve about %s this month for taxes.", FormatWhole(tax.Monthly)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return severityRank[out[i].Severity] < severityRank[out[j].Severity]
	})
	if len(out) > maxAlerts {
		out = out[:maxAlerts]
	}
	return out
}
