package config

import "finboard/backend/finance"

// GoalPolicy returns the goal-health thresholds configured for this process.
func (c Config) GoalPolicy() finance.GoalPolicy {
	p := finance.DefaultGoalPolicy()
	if c.GoalAggressiveRatio > 0 {
		p.AggressiveRatio = c.GoalAggressiveRatio
	}
	if c.GoalNoDeadlineMonths > 0 {
		p.NoDeadlineAggressiveMonths = c.GoalNoDeadlineMonths
	}
	return p
}
