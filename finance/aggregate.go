package finance

import (
	"sort"
	"time"

	"finboard/backend/models"

	"github.com/shopspring/decimal"
)

type CategoryTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type sums struct {
	income, expense decimal.Decimal
}

func (s *sums) add(t models.Transaction) {
	amt := decimal.NewFromFloat(t.Amount)
	switch t.Type {
	case models.Income:
		s.income = s.income.Add(amt)
	case models.Expense:
		s.expense = s.expense.Add(amt)
	}
}

func (s sums) totals() CategoryTotals {
	return CategoryTotals{Income: s.income.InexactFloat64(), Expense: s.expense.InexactFloat64()}
}

// AggregateByCategory folds transactions into per-category income and
// expense sums. The result does not depend on input order.
func AggregateByCategory(txs []models.Transaction) map[string]CategoryTotals {
	acc := make(map[string]*sums)
	for _, t := range txs {
		s, ok := acc[t.Category]
		if !ok {
			s = &sums{}
			acc[t.Category] = s
		}
		s.add(t)
	}
	out := make(map[string]CategoryTotals, len(acc))
	for k, s := range acc {
		out[k] = s.totals()
	}
	return out
}

type Stats struct {
	TotalIncome  float64                   `json:"totalIncome"`
	TotalExpense float64                   `json:"totalExpense"`
	Net          float64                   `json:"net"`
	ByCategory   map[string]CategoryTotals `json:"byCategory"`
}

func Totals(txs []models.Transaction) Stats {
	var all sums
	for _, t := range txs {
		all.add(t)
	}
	return Stats{
		TotalIncome:  all.income.InexactFloat64(),
		TotalExpense: all.expense.InexactFloat64(),
		Net:          all.income.Sub(all.expense).InexactFloat64(),
		ByCategory:   AggregateByCategory(txs),
	}
}

// MonthStart truncates t to the first instant of its UTC calendar month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// InMonth returns the transactions dated in the UTC calendar month of m.
func InMonth(txs []models.Transaction, m time.Time) []models.Transaction {
	start := MonthStart(m)
	end := start.AddDate(0, 1, 0)
	var out []models.Transaction
	for _, t := range txs {
		if !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, t)
		}
	}
	return out
}

// MonthlyTotals sums income and expenses dated in the month of m.
func MonthlyTotals(txs []models.Transaction, m time.Time) (income, expense float64) {
	var s sums
	for _, t := range InMonth(txs, m) {
		s.add(t)
	}
	tot := s.totals()
	return tot.Income, tot.Expense
}

type SortBy int

const (
	ByExpense SortBy = iota
	ByName
)

type CategoryTotal struct {
	Category string `json:"category"`
	CategoryTotals
}

// SortedCategories flattens byCat for display, either by expense descending
// (ties alphabetical) or alphabetically.
func SortedCategories(byCat map[string]CategoryTotals, by SortBy) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(byCat))
	for k, v := range byCat {
		out = append(out, CategoryTotal{Category: k, CategoryTotals: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if by == ByExpense && out[i].Expense != out[j].Expense {
			return out[i].Expense > out[j].Expense
		}
		return out[i].Category < out[j].Category
	})
	return out
}

type BudgetUsage struct {
	Category    string  `json:"category"`
	Limit       float64 `json:"limit"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
}

// SpendVsLimit matches the month's expenses against each budget by category.
func SpendVsLimit(budgets []models.Budget, txs []models.Transaction, m time.Time) []BudgetUsage {
	byCat := AggregateByCategory(InMonth(txs, m))
	out := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		spent := byCat[b.Category].Expense
		out = append(out, BudgetUsage{
			Category:    b.Category,
			Limit:       RoundCurrency(b.MonthlyLimit),
			Spent:       RoundCurrency(spent),
			Remaining:   RoundCurrency(b.MonthlyLimit - spent),
			PercentUsed: RoundTo(Percent(spent, b.MonthlyLimit), 1),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
