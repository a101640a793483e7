package store

import (
	"context"

	"finboard/backend/apperrors"
	"finboard/backend/models"
)

func (g *Gateway) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	if err := scope(userID, ""); err != nil {
		return nil, err
	}
	bs, err := g.backend.ListBudgets(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("list budgets", err)
	}
	return bs, nil
}

func (g *Gateway) GetBudget(ctx context.Context, userID, id string) (models.Budget, error) {
	if err := scope(userID, id); err != nil {
		return models.Budget{}, err
	}
	b, err := g.backend.GetBudget(ctx, userID, id)
	return b, apperrors.Internal("get budget", err)
}

// CreateBudget adds a single budget. A second budget for the same category
// is a ConflictError; use UpsertBudgets to overwrite.
func (g *Gateway) CreateBudget(ctx context.Context, userID string, in models.BudgetInput) (models.Budget, error) {
	if err := scope(userID, ""); err != nil {
		return models.Budget{}, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Budget{}, err
	}
	now := g.now()
	b := models.Budget{
		ID:           g.newID(),
		UserID:       userID,
		Category:     in.Category,
		MonthlyLimit: in.MonthlyLimit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := g.backend.InsertBudget(ctx, b); err != nil {
		return models.Budget{}, apperrors.Internal("create budget", err)
	}
	return b, nil
}

func (g *Gateway) UpdateBudget(ctx context.Context, userID, id string, p models.BudgetPatch) (models.Budget, error) {
	if err := scope(userID, id); err != nil {
		return models.Budget{}, err
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Budget{}, err
	}
	b, err := g.backend.GetBudget(ctx, userID, id)
	if err != nil {
		return models.Budget{}, apperrors.Internal("get budget", err)
	}
	p.Apply(&b)
	b.UpdatedAt = g.now()
	if err := g.backend.UpdateBudget(ctx, b); err != nil {
		return models.Budget{}, apperrors.Internal("update budget", err)
	}
	return b, nil
}

func (g *Gateway) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := scope(userID, id); err != nil {
		return err
	}
	return apperrors.Internal("delete budget", g.backend.DeleteBudget(ctx, userID, id))
}

// UpsertBudgets creates or overwrites one budget per category. Repeated
// categories in one request collapse to the last limit given.
func (g *Gateway) UpsertBudgets(ctx context.Context, userID string, req models.BulkBudgetRequest) ([]models.Budget, error) {
	if err := scope(userID, ""); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := g.now()
	items := req.Collapse()
	budgets := make([]models.Budget, 0, len(items))
	for _, in := range items {
		budgets = append(budgets, models.Budget{
			ID:           g.newID(),
			UserID:       userID,
			Category:     in.Category,
			MonthlyLimit: in.MonthlyLimit,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	saved, err := g.backend.UpsertBudgets(ctx, userID, budgets)
	if err != nil {
		return nil, apperrors.Internal("upsert budgets", err)
	}
	return saved, nil
}
