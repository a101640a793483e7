package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"finboard/backend/apperrors"
	"finboard/backend/models"
)

func ptr[T any](v T) *T { return &v }

// newTestGateway returns a memory-backed gateway whose clock advances one
// second per call.
func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g := NewGateway(NewMemory())
	clock := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return g
}

func mustCreateTx(t *testing.T, g *Gateway, user string, in models.TransactionInput) models.Transaction {
	t.Helper()
	tx, err := g.CreateTransaction(context.Background(), user, in)
	if err != nil {
		t.Fatalf("CreateTransaction(%+v): %v", in, err)
	}
	return tx
}

func TestTransactionRoundTrip(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	created := mustCreateTx(t, g, "user_a", models.TransactionInput{
		Type: models.Expense, Amount: 42.5, Category: " Software ", Date: "2025-01-10", Note: "IDE licence",
	})
	got, err := g.GetTransaction(ctx, "user_a", created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != models.Expense || got.Amount != 42.5 || got.Category != "Software" ||
		!got.Date.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)) ||
		got.Note != "IDE licence" || got.Source != models.SourceManual {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got != created {
		t.Fatalf("fetched %+v, created %+v", got, created)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	tx := mustCreateTx(t, g, "user_a", models.TransactionInput{Type: models.Income, Amount: 100, Category: "Sales"})

	if _, err := g.GetTransaction(ctx, "user_b", tx.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("foreign get = %v, want ErrNotFound", err)
	}
	if _, err := g.UpdateTransaction(ctx, "user_b", tx.ID, models.TransactionPatch{Amount: ptr(1.0)}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("foreign update = %v, want ErrNotFound", err)
	}
	if err := g.DeleteTransaction(ctx, "user_b", tx.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("foreign delete = %v, want ErrNotFound", err)
	}
	if list, _ := g.ListTransactions(ctx, "user_b", models.TransactionFilter{}); len(list) != 0 {
		t.Fatalf("user_b sees %d transactions", len(list))
	}
	if got, err := g.GetTransaction(ctx, "user_a", tx.ID); err != nil || got.Amount != 100 {
		t.Fatalf("owner view changed: %+v, %v", got, err)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	if _, err := g.GetTransaction(ctx, "user_a", "not-a-uuid"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetTransaction = %v", err)
	}
	if err := g.DeleteSavingGoal(ctx, "user_a", "65a1f0c2e4b0a1b2c3d4e5f6"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("DeleteSavingGoal = %v", err)
	}
}

func TestAnonymousCallerIsUnauthorized(t *testing.T) {
	g := newTestGateway(t)
	if _, err := g.ListBudgets(context.Background(), ""); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("ListBudgets(\"\") = %v", err)
	}
}

func TestListTransactionsOrderAndFilters(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	first := mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Income, Amount: 10, Category: "Sales", Date: "2025-01-05"})
	second := mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Expense, Amount: 20, Category: "Rent", Date: "2025-01-05"})
	latest := mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Expense, Amount: 30, Category: "Ads", Date: "2025-01-09"})
	mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Expense, Amount: 40, Category: "Ads", Date: "2024-12-30"})

	all, err := g.ListTransactions(ctx, "u", models.TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].ID != latest.ID || all[1].ID != second.ID || all[2].ID != first.ID {
		t.Fatalf("order = %v", categoriesOf(all))
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got, _ := g.ListTransactions(ctx, "u", models.TransactionFilter{Type: models.Expense, StartDate: &start})
	if len(got) != 2 {
		t.Fatalf("expenses since Jan 1 = %v", categoriesOf(got))
	}

	paged, _ := g.ListTransactions(ctx, "u", models.TransactionFilter{Limit: 2, Offset: 1})
	if len(paged) != 2 || paged[0].ID != second.ID {
		t.Fatalf("page = %v", categoriesOf(paged))
	}

	if _, err := g.ListTransactions(ctx, "u", models.TransactionFilter{Limit: 501}); apperrors.HTTPStatus(err) != 400 {
		t.Fatalf("oversized limit = %v", err)
	}
}

func categoriesOf(txs []models.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Category
	}
	return out
}

func TestTransactionCategories(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	for _, c := range []string{"Software", "Ads", "Software", "Rent"} {
		mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Expense, Amount: 1, Category: c})
	}
	mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Income, Amount: 1, Category: "Consulting"})
	mustCreateTx(t, g, "other", models.TransactionInput{Type: models.Expense, Amount: 1, Category: "Zzz"})

	got, err := g.TransactionCategories(ctx, "u", models.Expense)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Ads", "Rent", "Software"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
	if all, _ := g.TransactionCategories(ctx, "u", ""); len(all) != 4 {
		t.Fatalf("all categories = %v", all)
	}
}

func TestUpdateTransactionPatch(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	tx := mustCreateTx(t, g, "u", models.TransactionInput{Type: models.Expense, Amount: 20, Category: "Food", Note: "lunch"})

	got, err := g.UpdateTransaction(ctx, "u", tx.ID, models.TransactionPatch{Amount: ptr(25.0), Note: ptr("")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 25 || got.Note != "" || got.Category != "Food" || !got.UpdatedAt.After(tx.UpdatedAt) {
		t.Fatalf("patched = %+v", got)
	}
}

func TestUpsertBudgetsIsIdempotent(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	first, err := g.UpsertBudgets(ctx, "u", models.BulkBudgetRequest{Budgets: []models.BudgetInput{{Category: "Marketing", MonthlyLimit: 1200}}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.UpsertBudgets(ctx, "u", models.BulkBudgetRequest{Budgets: []models.BudgetInput{{Category: "Marketing", MonthlyLimit: 1000}}})
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("upsert created a new record: %s vs %s", first[0].ID, second[0].ID)
	}

	list, _ := g.ListBudgets(ctx, "u")
	if len(list) != 1 || list[0].Category != "Marketing" || list[0].MonthlyLimit != 1000 {
		t.Fatalf("budgets = %+v, want one Marketing at 1000", list)
	}
	if !list[0].CreatedAt.Equal(first[0].CreatedAt) {
		t.Fatal("upsert reset createdAt")
	}
}

func TestUpsertBudgetsCollapsesAndSorts(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	saved, err := g.UpsertBudgets(ctx, "u", models.BulkBudgetRequest{Budgets: []models.BudgetInput{
		{Category: "Software", MonthlyLimit: 300},
		{Category: "Marketing", MonthlyLimit: 1200},
		{Category: "Software", MonthlyLimit: 250},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 2 || saved[0].Category != "Software" || saved[0].MonthlyLimit != 250 {
		t.Fatalf("saved = %+v", saved)
	}
	list, _ := g.ListBudgets(ctx, "u")
	if len(list) != 2 || list[0].Category != "Marketing" || list[1].Category != "Software" {
		t.Fatalf("list order = %+v", list)
	}
}

func TestCreateBudgetConflict(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	if _, err := g.CreateBudget(ctx, "u", models.BudgetInput{Category: "Rent", MonthlyLimit: 2000}); err != nil {
		t.Fatal(err)
	}
	_, err := g.CreateBudget(ctx, "u", models.BudgetInput{Category: "Rent", MonthlyLimit: 1500})
	var ce *apperrors.ConflictError
	if !errors.As(err, &ce) || apperrors.HTTPStatus(err) != 400 {
		t.Fatalf("duplicate category = %v", err)
	}
	if _, err := g.CreateBudget(ctx, "other", models.BudgetInput{Category: "Rent", MonthlyLimit: 1}); err != nil {
		t.Fatalf("other user blocked by uniqueness: %v", err)
	}

	sw, _ := g.CreateBudget(ctx, "u", models.BudgetInput{Category: "Software", MonthlyLimit: 100})
	if _, err := g.UpdateBudget(ctx, "u", sw.ID, models.BudgetPatch{Category: ptr("Rent")}); !errors.As(err, &ce) {
		t.Fatalf("rename onto existing category = %v", err)
	}
}

func TestSavingGoalLifecycle(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	goal, err := g.CreateSavingGoal(ctx, "u", models.SavingGoalInput{
		Name: "Emergency Fund", TargetAmount: 10000, MonthlyContribution: 500, TargetDate: "2026-06-30",
	})
	if err != nil {
		t.Fatal(err)
	}
	if goal.SavedAmount != 0 || goal.IsPaused || goal.TargetDate == nil {
		t.Fatalf("created = %+v", goal)
	}

	paused, err := g.UpdateSavingGoal(ctx, "u", goal.ID, models.SavingGoalPatch{IsPaused: ptr(true), TargetDate: ptr("")})
	if err != nil {
		t.Fatal(err)
	}
	if !paused.IsPaused || paused.TargetDate != nil {
		t.Fatalf("patched = %+v", paused)
	}

	later, _ := g.CreateSavingGoal(ctx, "u", models.SavingGoalInput{Name: "Laptop", TargetAmount: 2000})
	list, _ := g.ListSavingGoals(ctx, "u")
	if len(list) != 2 || list[0].ID != later.ID {
		t.Fatalf("goals not newest first: %+v", list)
	}

	if err := g.DeleteSavingGoal(ctx, "u", goal.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := g.GetSavingGoal(ctx, "u", goal.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("deleted goal still readable: %v", err)
	}
}

func TestUserSyncAndOnboarding(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	if _, err := g.CompleteOnboarding(ctx, "user_1", models.OnboardingInput{BusinessType: models.Freelancer, MonthlyIncome: 5200}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("onboarding before sync = %v", err)
	}

	u, err := g.SyncUser(ctx, models.Profile{ClerkID: "user_1", Email: " Ada@Example.com ", FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "ada@example.com" || u.DisplayName != "Ada Lovelace" || u.Currency != "USD" || u.OnboardingCompleted {
		t.Fatalf("synced = %+v", u)
	}

	done, err := g.CompleteOnboarding(ctx, "user_1", models.OnboardingInput{BusinessType: models.Freelancer, MonthlyIncome: 5200, Currency: "eur"})
	if err != nil {
		t.Fatal(err)
	}
	if !done.OnboardingCompleted || done.Currency != "EUR" || done.MonthlyIncome == nil || *done.MonthlyIncome != 5200 {
		t.Fatalf("onboarded = %+v", done)
	}

	again, err := g.SyncUser(ctx, models.Profile{ClerkID: "user_1", Email: "ada@example.com", DisplayName: "Countess"})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != u.ID || !again.OnboardingCompleted || again.Currency != "EUR" || again.DisplayName != "Countess" {
		t.Fatalf("re-sync = %+v", again)
	}
}

// nilBackend panics on any call, proving validation happens first.
type nilBackend struct{ Backend }

func TestInvalidInputNeverReachesBackend(t *testing.T) {
	g := NewGateway(nilBackend{})
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["transaction amount"] = g.CreateTransaction(ctx, "u", models.TransactionInput{Type: models.Expense, Amount: 0, Category: "Rent"})
	_, checks["transaction type"] = g.CreateTransaction(ctx, "u", models.TransactionInput{Type: "gift", Amount: 5, Category: "Rent"})
	_, checks["transaction batch"] = g.CreateTransactions(ctx, "u", []models.TransactionInput{{Type: models.Income, Amount: -1, Category: "Sales"}})
	_, checks["transaction date"] = g.CreateTransaction(ctx, "u", models.TransactionInput{Type: models.Income, Amount: 5, Category: "Sales", Date: "soon"})
	_, checks["budget limit"] = g.UpsertBudgets(ctx, "u", models.BulkBudgetRequest{Budgets: []models.BudgetInput{{Category: "Ads", MonthlyLimit: -1}}})
	_, checks["budget category"] = g.CreateBudget(ctx, "u", models.BudgetInput{Category: " "})
	_, checks["goal target"] = g.CreateSavingGoal(ctx, "u", models.SavingGoalInput{Name: "x", TargetAmount: 0})
	_, checks["goal saved"] = g.CreateSavingGoal(ctx, "u", models.SavingGoalInput{Name: "x", TargetAmount: 10, SavedAmount: -1})
	_, checks["patch"] = g.UpdateSavingGoal(ctx, "u", "0b8f8a4e-8c55-4f3a-9a57-0f4b7d9d2f10", models.SavingGoalPatch{MonthlyContribution: ptr(-5.0)})
	_, checks["profile email"] = g.SyncUser(ctx, models.Profile{ClerkID: "u", Email: "nope"})

	for name, err := range checks {
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) || len(ve.Details) == 0 {
			t.Errorf("%s: err = %v, want ValidationError with details", name, err)
		}
	}
}

func TestCreateTransactionsIsAllOrNothing(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	_, err := g.CreateTransactions(ctx, "user_a", []models.TransactionInput{
		{Type: models.Income, Amount: 1200, Category: "Sales", Date: "2025-01-02", Source: models.SourceImport},
		{Type: models.Expense, Amount: 0, Category: "Hosting", Date: "2025-01-03", Source: models.SourceImport},
	})
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) || len(ve.Details) == 0 || ve.Details[0].Field != "[1].amount" {
		t.Fatalf("err = %v, want ValidationError on [1].amount", err)
	}
	if txs, _ := g.ListTransactions(ctx, "user_a", models.TransactionFilter{}); len(txs) != 0 {
		t.Fatalf("invalid batch wrote %d transactions", len(txs))
	}

	created, err := g.CreateTransactions(ctx, "user_a", []models.TransactionInput{
		{Type: models.Income, Amount: 1200, Category: "Sales", Date: "2025-01-02", Source: models.SourceImport},
		{Type: models.Expense, Amount: 40, Category: " Hosting ", Date: "2025-01-03", Source: models.SourceImport},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 || created[1].Category != "Hosting" || created[0].ID == created[1].ID {
		t.Fatalf("created = %+v", created)
	}
	if txs, _ := g.ListTransactions(ctx, "user_a", models.TransactionFilter{}); len(txs) != 2 {
		t.Fatalf("listed %d transactions, want 2", len(txs))
	}

	if empty, err := g.CreateTransactions(ctx, "user_a", nil); err != nil || len(empty) != 0 {
		t.Fatalf("empty batch = %v, %v", empty, err)
	}
	if _, err := g.CreateTransactions(ctx, "", []models.TransactionInput{}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("anonymous batch = %v", err)
	}
}

func TestMemoryInsertTransactionsRejectsWholeBatch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	existing := models.Transaction{ID: "t1", UserID: "u", Type: models.Income, Amount: 5, Category: "Sales"}
	if err := m.InsertTransaction(ctx, existing); err != nil {
		t.Fatal(err)
	}
	batch := []models.Transaction{
		{ID: "t2", UserID: "u", Type: models.Expense, Amount: 3, Category: "Fees"},
		{ID: "t1", UserID: "u", Type: models.Expense, Amount: 4, Category: "Fees"},
	}
	if err := m.InsertTransactions(ctx, batch); err == nil {
		t.Fatal("duplicate id accepted")
	}
	if _, err := m.GetTransaction(ctx, "u", "t2"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("partial batch written: %v", err)
	}
}
