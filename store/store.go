// Package store is the persistence boundary. Gateway validates every
// payload and scopes every call by the caller's user id before handing
// records to a Backend (Postgres, MongoDB or in-memory).
package store

import (
	"context"
	"time"

	"finboard/backend/apperrors"
	"finboard/backend/models"

	"github.com/google/uuid"
)

// Store is what the HTTP layer talks to.
type Store interface {
	ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, in models.TransactionInput) (models.Transaction, error)
	CreateTransactions(ctx context.Context, userID string, ins []models.TransactionInput) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id string, p models.TransactionPatch) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
	TransactionCategories(ctx context.Context, userID string, typ models.TransactionType) ([]string, error)

	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (models.Budget, error)
	CreateBudget(ctx context.Context, userID string, in models.BudgetInput) (models.Budget, error)
	UpdateBudget(ctx context.Context, userID, id string, p models.BudgetPatch) (models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
	UpsertBudgets(ctx context.Context, userID string, req models.BulkBudgetRequest) ([]models.Budget, error)

	ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error)
	GetSavingGoal(ctx context.Context, userID, id string) (models.SavingGoal, error)
	CreateSavingGoal(ctx context.Context, userID string, in models.SavingGoalInput) (models.SavingGoal, error)
	UpdateSavingGoal(ctx context.Context, userID, id string, p models.SavingGoalPatch) (models.SavingGoal, error)
	DeleteSavingGoal(ctx context.Context, userID, id string) error

	SyncUser(ctx context.Context, p models.Profile) (models.User, error)
	GetUser(ctx context.Context, clerkID string) (models.User, error)
	CompleteOnboarding(ctx context.Context, clerkID string, in models.OnboardingInput) (models.User, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context)
}

// Backend persists already-validated records. Every read, update and
// delete is filtered by user id; a record owned by someone else must be
// reported as apperrors.ErrNotFound.
type Backend interface {
	ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error)
	InsertTransaction(ctx context.Context, t models.Transaction) error
	// InsertTransactions writes every transaction in txs or none of them.
	InsertTransactions(ctx context.Context, txs []models.Transaction) error
	UpdateTransaction(ctx context.Context, t models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	TransactionCategories(ctx context.Context, userID string, typ models.TransactionType) ([]string, error)

	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (models.Budget, error)
	InsertBudget(ctx context.Context, b models.Budget) error
	UpdateBudget(ctx context.Context, b models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
	// UpsertBudgets writes all of budgets atomically, keyed on
	// (user, category). Existing rows keep their id and creation time.
	UpsertBudgets(ctx context.Context, userID string, budgets []models.Budget) ([]models.Budget, error)

	ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error)
	GetSavingGoal(ctx context.Context, userID, id string) (models.SavingGoal, error)
	InsertSavingGoal(ctx context.Context, g models.SavingGoal) error
	UpdateSavingGoal(ctx context.Context, g models.SavingGoal) error
	DeleteSavingGoal(ctx context.Context, userID, id string) error

	// UpsertUser inserts u or refreshes the profile fields of the user with
	// the same ClerkID, leaving onboarding answers alone.
	UpsertUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, clerkID string) (models.User, error)
	UpdateUser(ctx context.Context, u models.User) error

	Ping(ctx context.Context) error
	Close(ctx context.Context)
}

// Gateway implements Store on top of a Backend.
type Gateway struct {
	backend Backend
	now     func() time.Time
	newID   func() string
}

var _ Store = (*Gateway)(nil)

func NewGateway(b Backend) *Gateway {
	return &Gateway{
		backend: b,
		now:     func() time.Time { return time.Now().UTC().Truncate(models.TimePrecision) },
		newID:   uuid.NewString,
	}
}

// scope rejects anonymous callers and ids that cannot belong to any record.
func scope(userID, id string) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	if id != "" && uuid.Validate(id) != nil {
		return apperrors.ErrNotFound
	}
	return nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	return apperrors.Internal("ping", g.backend.Ping(ctx))
}

func (g *Gateway) Close(ctx context.Context) {
	g.backend.Close(ctx)
}
