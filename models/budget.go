package models

import (
	"strings"
	"time"
)

// Budget is unique per (UserID, Category).
type Budget struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"-" bson:"userId"`
	Category     string    `json:"category" bson:"category"`
	MonthlyLimit float64   `json:"monthlyLimit" bson:"monthlyLimit"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

type BudgetInput struct {
	Category     string  `json:"category" validate:"min=1,max=100"`
	MonthlyLimit float64 `json:"monthlyLimit" validate:"gte=0"`
}

func (in *BudgetInput) Normalize() {
	in.Category = strings.TrimSpace(in.Category)
}

func (in BudgetInput) Validate() error {
	return Validate("Invalid budget data", in)
}

// BulkBudgetRequest is the body of POST /budgets.
type BulkBudgetRequest struct {
	Budgets []BudgetInput `json:"budgets" validate:"required,dive"`
}

func (r *BulkBudgetRequest) Normalize() {
	for i := range r.Budgets {
		r.Budgets[i].Normalize()
	}
}

func (r BulkBudgetRequest) Validate() error {
	return Validate("Invalid budget data", r)
}

// Collapse removes repeated categories, keeping the first-seen position and
// the last-seen limit.
func (r BulkBudgetRequest) Collapse() []BudgetInput {
	idx := make(map[string]int, len(r.Budgets))
	out := make([]BudgetInput, 0, len(r.Budgets))
	for _, b := range r.Budgets {
		if i, ok := idx[b.Category]; ok {
			out[i].MonthlyLimit = b.MonthlyLimit
			continue
		}
		idx[b.Category] = len(out)
		out = append(out, b)
	}
	return out
}

type BudgetPatch struct {
	Category     *string  `json:"category,omitempty" validate:"omitnil,min=1,max=100"`
	MonthlyLimit *float64 `json:"monthlyLimit,omitempty" validate:"omitnil,gte=0"`
}

func (p *BudgetPatch) Normalize() {
	trimPtr(p.Category)
}

func (p BudgetPatch) Validate() error {
	return Validate("Invalid budget data", p)
}

func (p BudgetPatch) Apply(b *Budget) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.MonthlyLimit != nil {
		b.MonthlyLimit = *p.MonthlyLimit
	}
}
