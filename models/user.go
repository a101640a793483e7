package models

import (
	"strings"
	"time"
)

type BusinessType string

const (
	Freelancer    BusinessType = "freelancer"
	SmallBusiness BusinessType = "small-business"
	Startup       BusinessType = "startup"
	OtherBusiness BusinessType = "other"
)

const DefaultCurrency = "USD"

// User mirrors the identity-provider account plus onboarding answers.
type User struct {
	ID                  string       `json:"id" bson:"_id"`
	ClerkID             string       `json:"clerkId" bson:"clerkId"`
	Email               string       `json:"email" bson:"email"`
	FirstName           string       `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName            string       `json:"lastName,omitempty" bson:"lastName,omitempty"`
	DisplayName         string       `json:"displayName,omitempty" bson:"displayName,omitempty"`
	ImageURL            string       `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	BusinessType        BusinessType `json:"businessType,omitempty" bson:"businessType,omitempty"`
	MonthlyIncome       *float64     `json:"monthlyIncome,omitempty" bson:"monthlyIncome,omitempty"`
	Currency            string       `json:"currency" bson:"currency"`
	FinancialGoals      []string     `json:"financialGoals" bson:"financialGoals"`
	OnboardingCompleted bool         `json:"onboardingCompleted" bson:"onboardingCompleted"`
	LastSyncedAt        *time.Time   `json:"lastSyncedAt,omitempty" bson:"lastSyncedAt,omitempty"`
	CreatedAt           time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Profile is what the identity provider knows about the caller.
type Profile struct {
	ClerkID     string `json:"clerkId" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

func (p *Profile) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		p.DisplayName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
}

func (p Profile) Validate() error {
	return Validate("Invalid identity profile", p)
}

type OnboardingInput struct {
	BusinessType   BusinessType `json:"businessType" validate:"required,oneof=freelancer small-business startup other"`
	MonthlyIncome  float64      `json:"monthlyIncome" validate:"gt=0"`
	Currency       string       `json:"currency,omitempty" validate:"omitempty,len=3"`
	FinancialGoals []string     `json:"financialGoals,omitempty" validate:"max=20,dive,min=1,max=200"`
	DisplayName    string       `json:"displayName,omitempty" validate:"max=120"`
}

func (in *OnboardingInput) Normalize() {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.FinancialGoals == nil {
		in.FinancialGoals = []string{}
	}
	for i := range in.FinancialGoals {
		in.FinancialGoals[i] = strings.TrimSpace(in.FinancialGoals[i])
	}
}

func (in OnboardingInput) Validate() error {
	return Validate("Missing or invalid onboarding data", in)
}
