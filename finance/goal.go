package finance

import (
	"math"
	"time"
)

type GoalHealth string

const (
	GoalOnTrack    GoalHealth = "on-track"
	GoalBehind     GoalHealth = "behind"
	GoalAggressive GoalHealth = "aggressive"
)

// GoalPolicy holds the thresholds used to classify goal health.
type GoalPolicy struct {
	// A plan finishing before AggressiveRatio of the time left is aggressive.
	AggressiveRatio float64
	// Without a deadline, finishing in fewer months than this is aggressive.
	NoDeadlineAggressiveMonths float64
}

func DefaultGoalPolicy() GoalPolicy {
	return GoalPolicy{AggressiveRatio: 0.7, NoDeadlineAggressiveMonths: 6}
}

type GoalInput struct {
	TargetAmount        float64
	SavedAmount         float64
	MonthlyContribution float64
	TargetDate          *time.Time
}

type GoalTimeline struct {
	Remaining         float64    `json:"remaining"`
	MonthsNeeded      Months     `json:"monthsNeeded"`
	ProjectedDate     *time.Time `json:"projectedDate,omitempty"`
	MonthsUntilTarget *int       `json:"monthsUntilTarget,omitempty"`
	Health            GoalHealth `json:"health"`
}

const month = 30 * 24 * time.Hour

// maxYear is the last year time.Time can encode as JSON.
const maxYear = 9999

// MonthsUntil counts started 30-day periods between now and t. It works on
// millisecond timestamps so far-off dates do not saturate time.Duration.
func MonthsUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.UnixMilli()-now.UnixMilli()) / float64(month.Milliseconds())))
}

// projectDate returns now plus n months, or nil when that lands beyond
// maxYear.
func projectDate(now time.Time, n Months) *time.Time {
	if n.IsInf() || float64(n) > float64((maxYear-now.Year())*12) {
		return nil
	}
	d := now.AddDate(0, int(n), 0)
	if d.Year() > maxYear {
		return nil
	}
	return &d
}

// ComputeGoalTimeline projects when a goal completes at its current
// contribution and classifies its health against the deadline.
func ComputeGoalTimeline(g GoalInput, now time.Time, policy GoalPolicy) GoalTimeline {
	remaining := math.Max(g.TargetAmount-g.SavedAmount, 0)

	var needed Months
	switch {
	case remaining == 0:
		needed = 0
	case g.MonthlyContribution > 0:
		needed = Months(math.Ceil(remaining / g.MonthlyContribution))
	default:
		needed = Unbounded()
	}

	tl := GoalTimeline{
		Remaining:     RoundCurrency(remaining),
		MonthsNeeded:  needed,
		Health:        GoalOnTrack,
		ProjectedDate: projectDate(now, needed),
	}

	if g.TargetDate != nil {
		until := MonthsUntil(*g.TargetDate, now)
		tl.MonthsUntilTarget = &until
		switch {
		case float64(needed) > float64(until):
			tl.Health = GoalBehind
		case float64(needed) < policy.AggressiveRatio*float64(until):
			tl.Health = GoalAggressive
		}
		return tl
	}

	if float64(needed) < policy.NoDeadlineAggressiveMonths {
		tl.Health = GoalAggressive
	}
	return tl
}

// SuggestedContribution spreads targetAmount evenly over the months left
// before targetDate. It returns 0 once the deadline has passed.
func SuggestedContribution(targetAmount float64, targetDate, now time.Time) float64 {
	months := MonthsUntil(targetDate, now)
	if months <= 0 {
		return 0
	}
	return math.Ceil(targetAmount / float64(months))
}
