package store

import (
	"context"

	"finboard/backend/apperrors"
	"finboard/backend/models"
)

func (g *Gateway) ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error) {
	if err := scope(userID, ""); err != nil {
		return nil, err
	}
	goals, err := g.backend.ListSavingGoals(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("list saving goals", err)
	}
	return goals, nil
}

func (g *Gateway) GetSavingGoal(ctx context.Context, userID, id string) (models.SavingGoal, error) {
	if err := scope(userID, id); err != nil {
		return models.SavingGoal{}, err
	}
	goal, err := g.backend.GetSavingGoal(ctx, userID, id)
	return goal, apperrors.Internal("get saving goal", err)
}

func (g *Gateway) CreateSavingGoal(ctx context.Context, userID string, in models.SavingGoalInput) (models.SavingGoal, error) {
	if err := scope(userID, ""); err != nil {
		return models.SavingGoal{}, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.SavingGoal{}, err
	}
	now := g.now()
	goal := models.SavingGoal{
		ID:                  g.newID(),
		UserID:              userID,
		Name:                in.Name,
		TargetAmount:        in.TargetAmount,
		SavedAmount:         in.SavedAmount,
		MonthlyContribution: in.MonthlyContribution,
		TargetDate:          in.ParsedTargetDate(),
		IsPaused:            in.IsPaused,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := g.backend.InsertSavingGoal(ctx, goal); err != nil {
		return models.SavingGoal{}, apperrors.Internal("create saving goal", err)
	}
	return goal, nil
}

func (g *Gateway) UpdateSavingGoal(ctx context.Context, userID, id string, p models.SavingGoalPatch) (models.SavingGoal, error) {
	if err := scope(userID, id); err != nil {
		return models.SavingGoal{}, err
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.SavingGoal{}, err
	}
	goal, err := g.backend.GetSavingGoal(ctx, userID, id)
	if err != nil {
		return models.SavingGoal{}, apperrors.Internal("get saving goal", err)
	}
	p.Apply(&goal)
	goal.UpdatedAt = g.now()
	if err := g.backend.UpdateSavingGoal(ctx, goal); err != nil {
		return models.SavingGoal{}, apperrors.Internal("update saving goal", err)
	}
	return goal, nil
}

func (g *Gateway) DeleteSavingGoal(ctx context.Context, userID, id string) error {
	if err := scope(userID, id); err != nil {
		return err
	}
	return apperrors.Internal("delete saving goal", g.backend.DeleteSavingGoal(ctx, userID, id))
}
