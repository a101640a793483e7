package models

import (
	"encoding/json"
	"strings"
	"time"
)

type SavingGoal struct {
	ID                  string     `json:"id" bson:"_id"`
	UserID              string     `json:"-" bson:"userId"`
	Name                string     `json:"name" bson:"name"`
	TargetAmount        float64    `json:"targetAmount" bson:"targetAmount"`
	SavedAmount         float64    `json:"savedAmount" bson:"savedAmount"`
	MonthlyContribution float64    `json:"monthlyContribution" bson:"monthlyContribution"`
	TargetDate          *time.Time `json:"targetDate,omitempty" bson:"targetDate,omitempty"`
	IsPaused            bool       `json:"isPaused" bson:"isPaused"`
	CreatedAt           time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// MarshalJSON renders targetDate as YYYY-MM-DD.
func (g SavingGoal) MarshalJSON() ([]byte, error) {
	type alias SavingGoal
	out := struct {
		alias
		TargetDate string `json:"targetDate,omitempty"`
	}{alias: alias(g)}
	if g.TargetDate != nil {
		out.TargetDate = g.TargetDate.UTC().Format("2006-01-02")
	}
	return json.Marshal(out)
}

type SavingGoalInput struct {
	Name                string  `json:"name" validate:"min=1,max=120"`
	TargetAmount        float64 `json:"targetAmount" validate:"gt=0"`
	SavedAmount         float64 `json:"savedAmount" validate:"gte=0"`
	MonthlyContribution float64 `json:"monthlyContribution" validate:"gte=0"`
	TargetDate          string  `json:"targetDate,omitempty" validate:"isodate"`
	IsPaused            bool    `json:"isPaused"`
}

func (in *SavingGoalInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.TargetDate = strings.TrimSpace(in.TargetDate)
}

func (in SavingGoalInput) Validate() error {
	return Validate("Invalid saving goal data", in)
}

// ParsedTargetDate returns nil when no date was given.
func (in SavingGoalInput) ParsedTargetDate() *time.Time {
	return optionalDate(in.TargetDate)
}

// SavingGoalPatch covers pause/resume and contribution/date adjustment.
// An empty TargetDate clears the deadline.
type SavingGoalPatch struct {
	Name                *string  `json:"name,omitempty" validate:"omitnil,min=1,max=120"`
	TargetAmount        *float64 `json:"targetAmount,omitempty" validate:"omitnil,gt=0"`
	SavedAmount         *float64 `json:"savedAmount,omitempty" validate:"omitnil,gte=0"`
	MonthlyContribution *float64 `json:"monthlyContribution,omitempty" validate:"omitnil,gte=0"`
	TargetDate          *string  `json:"targetDate,omitempty" validate:"omitnil,isodate"`
	IsPaused            *bool    `json:"isPaused,omitempty"`
}

func (p *SavingGoalPatch) Normalize() {
	trimPtr(p.Name)
	trimPtr(p.TargetDate)
}

func (p SavingGoalPatch) Validate() error {
	return Validate("Invalid saving goal data", p)
}

func (p SavingGoalPatch) Apply(g *SavingGoal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.SavedAmount != nil {
		g.SavedAmount = *p.SavedAmount
	}
	if p.MonthlyContribution != nil {
		g.MonthlyContribution = *p.MonthlyContribution
	}
	if p.TargetDate != nil {
		g.TargetDate = optionalDate(*p.TargetDate)
	}
	if p.IsPaused != nil {
		g.IsPaused = *p.IsPaused
	}
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
