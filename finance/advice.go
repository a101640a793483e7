package finance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Advice is a rule-based answer built only from the caller's own numbers.
type Advice struct {
	Reply             string   `json:"reply"`
	Reason            string   `json:"reason"`
	Actions           []Action `json:"actions"`
	DataSource        string   `json:"dataSource"`
	SuggestedNextStep string   `json:"suggestedNextStep"`
}

type AdviceInput struct {
	Dashboard Dashboard
	Baseline  Baseline
	Question  string
	// Goal narrows the answer to one saving goal when set.
	Goal *GoalSummary
}

var amountPattern = regexp.MustCompile(`\$?\s?(\d[\d,]*(?:\.\d+)?)`)

var (
	actPlanning = Action{Label: "Open planning", Href: "/dashboard/planning"}
	actAlerts   = Action{Label: "View alerts", Href: "/dashboard/alerts"}
	actSpending = Action{Label: "View spending", Href: "/dashboard/spending"}
	actOverview = Action{Label: "View details", Href: "/dashboard"}
)

func Advise(in AdviceInput) Advice {
	q := strings.ToLower(strings.TrimSpace(in.Question))
	switch {
	case in.Goal != nil && (q == "" || strings.Contains(q, "goal")):
		return goalAdvice(*in.Goal)
	case q == "":
		return overviewAdvice(in.Dashboard)
	case strings.Contains(q, "hire") || strings.Contains(q, "afford"):
		return affordAdvice(in.Baseline, q)
	case strings.Contains(q, "profit") || strings.Contains(q, "drop"):
		return profitAdvice(in.Dashboard)
	case strings.Contains(q, "runway") || strings.Contains(q, "healthy"):
		return runwayAdvice(in.Dashboard)
	case strings.Contains(q, "focus") || strings.Contains(q, "month"):
		return focusAdvice(in.Dashboard)
	case strings.Contains(q, "tax"):
		return taxAdvice(in.Dashboard)
	}
	return Advice{
		Reply:             "I can help you understand your finances better.",
		Reason:            "Try asking about your runway, profit, expenses, taxes or alerts. I can also help you plan scenarios.",
		Actions:           []Action{actPlanning, actAlerts},
		DataSource:        "Based on your financial data",
		SuggestedNextStep: "Open planning to explore scenarios",
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func overviewAdvice(d Dashboard) Advice {
	a := Advice{
		Reply:      fmt.Sprintf("You currently have %s months of runway.", d.Runway),
		DataSource: "Based on transactions from " + d.Month,
	}
	if n := len(d.Alerts); n > 0 {
		a.Reply += fmt.Sprintf(" %s may affect your cash flow this month.", plural(n, "alert"))
		a.Reason = "Want me to explain them or help you plan next steps?"
		a.Actions = []Action{actAlerts, actPlanning}
		a.SuggestedNextStep = "Open alerts to resolve issues"
		return a
	}
	a.Reply += " Your finances look stable."
	a.Reason = "Want to explore growth scenarios or review your spending?"
	a.Actions = []Action{actPlanning, actSpending}
	a.SuggestedNextStep = "Create a planning scenario"
	return a
}

func goalAdvice(g GoalSummary) Advice {
	progress := Percent(g.Goal.SavedAmount, g.Goal.TargetAmount)
	a := Advice{
		Reply: fmt.Sprintf("You're working on your %q goal. You've saved %s of %s (%.0f%% complete).",
			g.Goal.Name, FormatWhole(g.Goal.SavedAmount), FormatWhole(g.Goal.TargetAmount), progress),
		Actions:    []Action{{Label: "Adjust goal", Href: "/dashboard/planning?tab=goals&goalId=" + g.Goal.ID}, actPlanning},
		DataSource: fmt.Sprintf("Based on your %q saving goal", g.Goal.Name),
	}
	switch {
	case g.Goal.IsPaused:
		a.Reason = "This goal is currently paused. Would you like to resume it or adjust your plan?"
		a.SuggestedNextStep = "Resume or adjust your goal in Planning"
	case g.Timeline.MonthsNeeded.IsInf():
		a.Reason = "Consider setting a monthly contribution to track your progress."
		a.SuggestedNextStep = "Set a monthly contribution for this goal"
	default:
		n := int(g.Timeline.MonthsNeeded)
		a.Reason = fmt.Sprintf("At your current rate of %s/month, you'll reach your goal in about %s.",
			FormatWhole(g.Goal.MonthlyContribution), plural(n, "month"))
		if g.Timeline.Health == GoalBehind {
			a.Reason += " That is later than your target date."
		}
		a.SuggestedNextStep = "Adjust your monthly contribution to reach your goal faster"
	}
	return a
}

// affordAdvice reads the first amount in the question as a new monthly cost.
func affordAdvice(b Baseline, q string) Advice {
	m := amountPattern.FindStringSubmatch(q)
	if m == nil {
		return Advice{
			Reply:             "Tell me the monthly cost and I'll check it against your runway.",
			Reason:            "For example: can I afford a $1,200/month hire?",
			Actions:           []Action{actPlanning},
			DataSource:        "Based on current cash balance and monthly expenses",
			SuggestedNextStep: "Ask again with the monthly amount",
		}
	}
	cost, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	current := b.Current()
	next := ComputeBudgetImpact(b, cost)

	a := Advice{
		Reason: fmt.Sprintf("Adding a %s/month expense changes your runway from %s to %s months and monthly profit from %s to %s.",
			FormatWhole(cost), current.Runway, next.Runway, FormatWhole(current.Profit), FormatWhole(next.Profit)),
		Actions:           []Action{{Label: "View scenario", Href: "/dashboard/planning"}, {Label: "Adjust budget", Href: "/dashboard/planning"}},
		DataSource:        "Based on current cash balance and monthly expenses",
		SuggestedNextStep: "Open a planning scenario to simulate this change",
	}
	switch next.Risk {
	case RiskLow:
		a.Reply = "Yes, you can afford this."
	case RiskMedium:
		a.Reply = "You can afford this, but it tightens your runway."
	default:
		a.Reply = "Not yet. This would leave you with less than 3 months of runway."
	}
	return a
}

func profitAdvice(d Dashboard) Advice {
	a := Advice{
		Actions:           []Action{actSpending, actPlanning},
		DataSource:        "Based on transactions from " + d.Month,
		SuggestedNextStep: "Review your largest expense category",
	}
	switch d.Profit.State {
	case ProfitHealthy:
		a.Reply = fmt.Sprintf("Your profit is healthy at %s this month (%.1f%% margin).", FormatWhole(d.Profit.Profit), d.Profit.Margin)
	case ProfitPositive:
		a.Reply = fmt.Sprintf("You're profitable at %s this month, but the margin is thin (%.1f%%).", FormatWhole(d.Profit.Profit), d.Profit.Margin)
	default:
		a.Reply = fmt.Sprintf("You're losing %s this month.", FormatWhole(-d.Profit.Profit))
	}
	for _, c := range d.Categories {
		if c.Expense > 0 {
			a.Reason = fmt.Sprintf("%s is your largest expense at %s, against %s of income.", c.Category, FormatWhole(c.Expense), FormatWhole(d.Profit.Income))
			break
		}
	}
	if a.Reason == "" {
		a.Reason = "No expenses are recorded for this month yet."
	}
	return a
}

func runwayAdvice(d Dashboard) Advice {
	healthy := d.Risk == RiskLow
	a := Advice{
		Actions:    []Action{actPlanning, actOverview},
		DataSource: "Based on current cash balance and monthly burn rate",
	}
	if healthy {
		a.Reply = "Your runway is healthy."
		a.Reason = fmt.Sprintf("You have %s months of runway, which is above the 6-month safety threshold.", d.Runway)
		a.SuggestedNextStep = "Explore growth scenarios"
		return a
	}
	a.Reply = "Your runway needs attention."
	a.Reason = fmt.Sprintf("You have %s months of runway. Consider reducing expenses or increasing revenue to reach 6 months.", d.Runway)
	a.SuggestedNextStep = "Plan cost reduction to extend runway"
	return a
}

func focusAdvice(d Dashboard) Advice {
	n := len(d.Alerts)
	a := Advice{
		Actions:    []Action{actAlerts, actPlanning},
		DataSource: "Based on your current financial snapshot and active alerts",
	}
	switch {
	case n > 0 && d.Risk != RiskLow:
		a.Reply = "Focus on extending your runway and reviewing your alerts."
		a.Reason = fmt.Sprintf("You have %s that need attention, and your runway is below 6 months.", plural(n, "alert"))
		a.SuggestedNextStep = "Open alerts to resolve issues first"
	case n > 0:
		a.Reply = "Focus on your alerts."
		a.Reason = fmt.Sprintf("You have %s that need attention.", plural(n, "alert"))
		a.SuggestedNextStep = "Open alerts to resolve issues first"
	case d.Risk != RiskLow:
		a.Reply = "Focus on extending your runway."
		a.Reason = fmt.Sprintf("Your runway is %s months, below the 6-month safety threshold.", d.Runway)
		a.SuggestedNextStep = "Open planning to extend runway"
	default:
		a.Reply = "You're in good shape. Focus on growth."
		a.Reason = "No alerts and a healthy runway."
		a.SuggestedNextStep = "Create a planning scenario"
	}
	return a
}

func taxAdvice(d Dashboard) Advice {
	return Advice{
		Reply: fmt.Sprintf("Set aside about %s this month for taxes.", FormatWhole(d.TaxReserve.Monthly)),
		Reason: fmt.Sprintf("That is %.0f%% of this month's income, about %s per quarter.",
			d.TaxReserve.RatePct, FormatWhole(d.TaxReserve.Quarterly)),
		Actions:           []Action{actPlanning},
		DataSource:        "Based on transactions from " + d.Month,
		SuggestedNextStep: "Move the reserve to a separate account",
	}
}
