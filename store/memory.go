package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"finboard/backend/apperrors"
	"finboard/backend/models"
)

// Memory keeps everything in process. It backs tests and local runs with
// DATABASE_URL=memory://.
type Memory struct {
	mu           sync.RWMutex
	transactions map[string]models.Transaction
	budgets      map[string]models.Budget
	goals        map[string]models.SavingGoal
	users        map[string]models.User // by clerk id
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		transactions: map[string]models.Transaction{},
		budgets:      map[string]models.Budget{},
		goals:        map[string]models.SavingGoal{},
		users:        map[string]models.User{},
	}
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close(context.Context)      {}

func (m *Memory) ListTransactions(_ context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Transaction{}
	for _, t := range m.transactions {
		if t.UserID == userID && f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (m *Memory) GetTransaction(_ context.Context, userID, id string) (models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return models.Transaction{}, apperrors.ErrNotFound
	}
	return t, nil
}

func (m *Memory) InsertTransaction(_ context.Context, t models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
	return nil
}

func (m *Memory) InsertTransactions(_ context.Context, txs []models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool, len(txs))
	for _, t := range txs {
		if _, ok := m.transactions[t.ID]; ok || seen[t.ID] {
			return fmt.Errorf("duplicate transaction id %s", t.ID)
		}
		seen[t.ID] = true
	}
	for _, t := range txs {
		m.transactions[t.ID] = t
	}
	return nil
}

func (m *Memory) UpdateTransaction(_ context.Context, t models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.transactions[t.ID]
	if !ok || cur.UserID != t.UserID {
		return apperrors.ErrNotFound
	}
	m.transactions[t.ID] = t
	return nil
}

func (m *Memory) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *Memory) TransactionCategories(_ context.Context, userID string, typ models.TransactionType) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, t := range m.transactions {
		if t.UserID != userID || (typ != "" && t.Type != typ) || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) ListBudgets(_ context.Context, userID string) ([]models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Budget{}
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (m *Memory) GetBudget(_ context.Context, userID, id string) (models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return models.Budget{}, apperrors.ErrNotFound
	}
	return b, nil
}

// budgetByCategory must be called with mu held.
func (m *Memory) budgetByCategory(userID, category string) (models.Budget, bool) {
	for _, b := range m.budgets {
		if b.UserID == userID && b.Category == category {
			return b, true
		}
	}
	return models.Budget{}, false
}

func duplicateCategory(category string) error {
	return &apperrors.ConflictError{Field: "category", Message: "a budget for " + category + " already exists"}
}

func (m *Memory) InsertBudget(_ context.Context, b models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.budgetByCategory(b.UserID, b.Category); dup {
		return duplicateCategory(b.Category)
	}
	m.budgets[b.ID] = b
	return nil
}

func (m *Memory) UpdateBudget(_ context.Context, b models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.budgets[b.ID]
	if !ok || cur.UserID != b.UserID {
		return apperrors.ErrNotFound
	}
	if other, dup := m.budgetByCategory(b.UserID, b.Category); dup && other.ID != b.ID {
		return duplicateCategory(b.Category)
	}
	m.budgets[b.ID] = b
	return nil
}

func (m *Memory) DeleteBudget(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(m.budgets, id)
	return nil
}

func (m *Memory) UpsertBudgets(_ context.Context, userID string, budgets []models.Budget) ([]models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		if cur, ok := m.budgetByCategory(userID, b.Category); ok {
			cur.MonthlyLimit = b.MonthlyLimit
			cur.UpdatedAt = b.UpdatedAt
			b = cur
		}
		b.UserID = userID
		m.budgets[b.ID] = b
		out = append(out, b)
	}
	return out, nil
}

func (m *Memory) ListSavingGoals(_ context.Context, userID string) ([]models.SavingGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.SavingGoal{}
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, copyGoal(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func copyGoal(g models.SavingGoal) models.SavingGoal {
	if g.TargetDate != nil {
		d := *g.TargetDate
		g.TargetDate = &d
	}
	return g
}

func (m *Memory) GetSavingGoal(_ context.Context, userID, id string) (models.SavingGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.goals[id]
	if !ok || g.UserID != userID {
		return models.SavingGoal{}, apperrors.ErrNotFound
	}
	return copyGoal(g), nil
}

func (m *Memory) InsertSavingGoal(_ context.Context, g models.SavingGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.ID] = copyGoal(g)
	return nil
}

func (m *Memory) UpdateSavingGoal(_ context.Context, g models.SavingGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.goals[g.ID]
	if !ok || cur.UserID != g.UserID {
		return apperrors.ErrNotFound
	}
	m.goals[g.ID] = copyGoal(g)
	return nil
}

func (m *Memory) DeleteSavingGoal(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[id]
	if !ok || g.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(m.goals, id)
	return nil
}

func copyUser(u models.User) models.User {
	if u.MonthlyIncome != nil {
		v := *u.MonthlyIncome
		u.MonthlyIncome = &v
	}
	if u.LastSyncedAt != nil {
		v := *u.LastSyncedAt
		u.LastSyncedAt = &v
	}
	u.FinancialGoals = append([]string{}, u.FinancialGoals...)
	return u
}

func (m *Memory) UpsertUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.users[u.ClerkID]; ok {
		cur.Email = u.Email
		cur.FirstName = u.FirstName
		cur.LastName = u.LastName
		cur.DisplayName = u.DisplayName
		cur.ImageURL = u.ImageURL
		cur.LastSyncedAt = u.LastSyncedAt
		cur.UpdatedAt = u.UpdatedAt
		u = cur
	}
	m.users[u.ClerkID] = copyUser(u)
	return copyUser(u), nil
}

func (m *Memory) GetUser(_ context.Context, clerkID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[clerkID]
	if !ok {
		return models.User{}, apperrors.ErrNotFound
	}
	return copyUser(u), nil
}

func (m *Memory) UpdateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ClerkID]; !ok {
		return apperrors.ErrNotFound
	}
	m.users[u.ClerkID] = copyUser(u)
	return nil
}
