package store

import (
	"context"

	"finboard/backend/apperrors"
	"finboard/backend/models"
)

// SyncUser records the identity provider's view of the caller. Calling it
// again only refreshes the profile and lastSyncedAt.
func (g *Gateway) SyncUser(ctx context.Context, p models.Profile) (models.User, error) {
	if p.ClerkID == "" {
		return models.User{}, apperrors.ErrUnauthorized
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.User{}, err
	}
	now := g.now()
	u := models.User{
		ID:             g.newID(),
		ClerkID:        p.ClerkID,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		DisplayName:    p.DisplayName,
		ImageURL:       p.ImageURL,
		Currency:       models.DefaultCurrency,
		FinancialGoals: []string{},
		LastSyncedAt:   &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	saved, err := g.backend.UpsertUser(ctx, u)
	if err != nil {
		return models.User{}, apperrors.Internal("sync user", err)
	}
	return saved, nil
}

func (g *Gateway) GetUser(ctx context.Context, clerkID string) (models.User, error) {
	if err := scope(clerkID, ""); err != nil {
		return models.User{}, err
	}
	u, err := g.backend.GetUser(ctx, clerkID)
	return u, apperrors.Internal("get user", err)
}

// CompleteOnboarding stores the onboarding answers. The user must have been
// synced first.
func (g *Gateway) CompleteOnboarding(ctx context.Context, clerkID string, in models.OnboardingInput) (models.User, error) {
	if err := scope(clerkID, ""); err != nil {
		return models.User{}, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}
	u, err := g.backend.GetUser(ctx, clerkID)
	if err != nil {
		return models.User{}, apperrors.Internal("get user", err)
	}

	income := in.MonthlyIncome
	u.BusinessType = in.BusinessType
	u.MonthlyIncome = &income
	u.Currency = in.Currency
	u.FinancialGoals = in.FinancialGoals
	if in.DisplayName != "" {
		u.DisplayName = in.DisplayName
	}
	u.OnboardingCompleted = true
	u.UpdatedAt = g.now()

	if err := g.backend.UpdateUser(ctx, u); err != nil {
		return models.User{}, apperrors.Internal("complete onboarding", err)
	}
	return u, nil
}
