package finance

import (
	"reflect"
	"testing"
	"time"

	"finboard/backend/models"
)

func tx(typ models.TransactionType, amount float64, category string, date time.Time) models.Transaction {
	return models.Transaction{Type: typ, Amount: amount, Category: category, Date: date}
}

func sampleTransactions() []models.Transaction {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	return []models.Transaction{
		tx(models.Income, 100.1, "Sales", jan),
		tx(models.Income, 50.2, "Sales", jan),
		tx(models.Expense, 1200, "Rent", jan),
		tx(models.Expense, 10, "Sales", jan),
		tx(models.Expense, 800, "Marketing", jan),
		tx(models.Expense, 500, "Marketing", dec),
		tx(models.Expense, 400, "Software", jan),
	}
}

func TestAggregateByCategory_OrderIndependent(t *testing.T) {
	txs := sampleTransactions()
	forward := AggregateByCategory(txs)

	reversed := make([]models.Transaction, len(txs))
	for i, t := range txs {
		reversed[len(txs)-1-i] = t
	}
	if got := AggregateByCategory(reversed); !reflect.DeepEqual(forward, got) {
		t.Fatalf("aggregation depends on order:\n%v\n%v", forward, got)
	}

	if got := forward["Sales"]; got.Income != 150.3 || got.Expense != 10 {
		t.Fatalf("Sales = %+v, want income 150.3 expense 10", got)
	}
	if got := forward["Marketing"]; got.Expense != 1300 {
		t.Fatalf("Marketing = %+v, want expense 1300", got)
	}
	if len(AggregateByCategory(nil)) != 0 {
		t.Fatal("empty input produced categories")
	}
}

func TestTotalsAndMonthlyTotals(t *testing.T) {
	txs := sampleTransactions()
	s := Totals(txs)
	if s.TotalIncome != 150.3 || s.TotalExpense != 2910 || s.Net != -2759.7 {
		t.Fatalf("Totals = %+v", s)
	}

	income, expense := MonthlyTotals(txs, time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC))
	if income != 150.3 || expense != 2410 {
		t.Fatalf("January totals = %v/%v, want 150.3/2410", income, expense)
	}
}

func TestSortedCategories(t *testing.T) {
	byCat := map[string]CategoryTotals{
		"Rent":      {Expense: 1200},
		"Software":  {Expense: 400},
		"Marketing": {Expense: 400},
		"Sales":     {Income: 150},
	}
	var names []string
	for _, c := range SortedCategories(byCat, ByExpense) {
		names = append(names, c.Category)
	}
	if want := []string{"Rent", "Marketing", "Software", "Sales"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("ByExpense = %v, want %v", names, want)
	}

	names = names[:0]
	for _, c := range SortedCategories(byCat, ByName) {
		names = append(names, c.Category)
	}
	if want := []string{"Marketing", "Rent", "Sales", "Software"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("ByName = %v, want %v", names, want)
	}
}

func TestSpendVsLimit(t *testing.T) {
	budgets := []models.Budget{
		{Category: "Software", MonthlyLimit: 300},
		{Category: "Marketing", MonthlyLimit: 1000},
		{Category: "Travel", MonthlyLimit: 0},
	}
	got := SpendVsLimit(budgets, sampleTransactions(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	want := []BudgetUsage{
		{Category: "Marketing", Limit: 1000, Spent: 800, Remaining: 200, PercentUsed: 80},
		{Category: "Software", Limit: 300, Spent: 400, Remaining: -100, PercentUsed: 133.3},
		{Category: "Travel"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SpendVsLimit =\n%+v\nwant\n%+v", got, want)
	}
}
