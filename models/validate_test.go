package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"finboard/backend/apperrors"
)

func ptr[T any](v T) *T { return &v }

func detailFields(t *testing.T, err error) map[string]bool {
	t.Helper()
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	out := map[string]bool{}
	for _, d := range ve.Details {
		out[d.Field] = true
	}
	return out
}

func TestTransactionInputValidate(t *testing.T) {
	ok := TransactionInput{Type: Income, Amount: 10, Category: "Sales", Date: "2025-01-24"}
	ok.Normalize()
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if ok.Source != SourceManual {
		t.Fatalf("Source default = %q, want manual", ok.Source)
	}

	bad := TransactionInput{Type: "refund", Amount: 0, Category: "   ", Date: "yesterday"}
	bad.Normalize()
	fields := detailFields(t, bad.Validate())
	for _, f := range []string{"type", "amount", "category", "date"} {
		if !fields[f] {
			t.Errorf("missing detail for %q in %v", f, fields)
		}
	}
}

func TestTransactionInputNegativeAmount(t *testing.T) {
	in := TransactionInput{Type: Expense, Amount: -5, Category: "Rent"}
	if fields := detailFields(t, in.Validate()); !fields["amount"] {
		t.Fatalf("negative amount accepted: %v", fields)
	}
}

func TestTransactionPatchPointerSemantics(t *testing.T) {
	if err := (TransactionPatch{}).Validate(); err != nil {
		t.Fatalf("empty patch rejected: %v", err)
	}
	p := TransactionPatch{Category: ptr("  "), Amount: ptr(0.0)}
	p.Normalize()
	fields := detailFields(t, p.Validate())
	if !fields["category"] || !fields["amount"] {
		t.Fatalf("blank category / zero amount accepted: %v", fields)
	}

	note := TransactionPatch{Note: ptr("")}
	if err := note.Validate(); err != nil {
		t.Fatalf("clearing note rejected: %v", err)
	}
}

func TestTransactionPatchApply(t *testing.T) {
	tx := Transaction{Type: Expense, Amount: 20, Category: "Food", Note: "lunch"}
	TransactionPatch{Amount: ptr(25.5), Date: ptr("2025-02-01"), Note: ptr("")}.Apply(&tx)
	if tx.Amount != 25.5 || tx.Note != "" || tx.Category != "Food" {
		t.Fatalf("Apply produced %+v", tx)
	}
	if want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC); !tx.Date.Equal(want) {
		t.Fatalf("Date = %v, want %v", tx.Date, want)
	}
}

func TestBulkBudgetCollapse(t *testing.T) {
	req := BulkBudgetRequest{Budgets: []BudgetInput{
		{Category: "Marketing", MonthlyLimit: 1200},
		{Category: "Software", MonthlyLimit: 300},
		{Category: "Marketing", MonthlyLimit: 1000},
	}}
	got := req.Collapse()
	if len(got) != 2 || got[0].Category != "Marketing" || got[0].MonthlyLimit != 1000 {
		t.Fatalf("Collapse = %+v", got)
	}
}

func TestBulkBudgetValidateDives(t *testing.T) {
	req := BulkBudgetRequest{Budgets: []BudgetInput{{Category: "", MonthlyLimit: -1}}}
	req.Normalize()
	fields := detailFields(t, req.Validate())
	if !fields["budgets[0].category"] || !fields["budgets[0].monthlyLimit"] {
		t.Fatalf("details = %v", fields)
	}
	if fields := detailFields(t, (BulkBudgetRequest{}).Validate()); !fields["budgets"] {
		t.Fatalf("missing budgets list accepted: %v", fields)
	}
}

func TestSavingGoalValidate(t *testing.T) {
	in := SavingGoalInput{Name: "Emergency Fund", TargetAmount: 10000, MonthlyContribution: 500, TargetDate: "2026-06-30"}
	in.Normalize()
	if err := in.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}
	if d := in.ParsedTargetDate(); d == nil || d.Month() != time.June {
		t.Fatalf("ParsedTargetDate = %v", d)
	}

	bad := SavingGoalInput{Name: "x", TargetAmount: 0, SavedAmount: -1, MonthlyContribution: -1}
	fields := detailFields(t, bad.Validate())
	for _, f := range []string{"targetAmount", "savedAmount", "monthlyContribution"} {
		if !fields[f] {
			t.Errorf("missing detail for %q", f)
		}
	}
}

func TestSavingGoalMarshalTargetDate(t *testing.T) {
	d := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	b, err := SavingGoal{ID: "g1", Name: "Tax Reserve", TargetDate: &d}.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if want := `"targetDate":"2026-03-15"`; !strings.Contains(string(b), want) {
		t.Fatalf("json %s does not contain %s", b, want)
	}
}

func TestOnboardingDefaults(t *testing.T) {
	in := OnboardingInput{BusinessType: Freelancer, MonthlyIncome: 5200}
	in.Normalize()
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	if in.Currency != "USD" || in.FinancialGoals == nil {
		t.Fatalf("defaults not applied: %+v", in)
	}
	missing := OnboardingInput{}
	missing.Normalize()
	fields := detailFields(t, missing.Validate())
	if !fields["businessType"] || !fields["monthlyIncome"] {
		t.Fatalf("details = %v", fields)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-01-24", "2025-01-24T10:30:00Z", "2025-01-24T10:30:00+02:00"} {
		if _, err := ParseDate(s); err != nil {
			t.Errorf("ParseDate(%q) = %v", s, err)
		}
	}
	if _, err := ParseDate("24/01/2025"); err == nil {
		t.Error("ParseDate accepted dd/mm/yyyy")
	}
}

func TestParseDateTruncatesToStoredPrecision(t *testing.T) {
	got, err := ParseDate("2025-01-24T10:30:00.123456789Z")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 1, 24, 10, 30, 0, 123000000, time.UTC); !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}

	in := TransactionInput{Date: "2025-01-24T10:30:00.987654+02:00"}
	if d := in.DateOr(time.Now()); d.Nanosecond() != 987000000 || d.Hour() != 8 {
		t.Fatalf("DateOr = %v, want 08:30:00.987 UTC", d)
	}
	p := TransactionPatch{Date: ptr("2025-02-01T00:00:00.0005Z")}
	if d := p.ParsedDate(); d == nil || d.Nanosecond() != 0 {
		t.Fatalf("ParsedDate = %v, want whole milliseconds", d)
	}
}
