package database

import (
	"context"
	"fmt"

	"finboard/backend/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		clerk_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		business_type TEXT NOT NULL DEFAULT '',
		monthly_income NUMERIC NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		financial_goals TEXT[] NOT NULL DEFAULT '{}',
		onboarding_completed BOOLEAN NOT NULL DEFAULT false,
		last_synced_at TIMESTAMPTZ NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		amount NUMERIC NOT NULL CHECK (amount > 0),
		category TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'manual',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions(user_id, date DESC, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_category_idx ON transactions(user_id, category)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		monthly_limit NUMERIC NOT NULL CHECK (monthly_limit >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE(user_id, category)
	)`,
	`CREATE TABLE IF NOT EXISTS saving_goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_amount NUMERIC NOT NULL CHECK (target_amount > 0),
		saved_amount NUMERIC NOT NULL DEFAULT 0 CHECK (saved_amount >= 0),
		monthly_contribution NUMERIC NOT NULL DEFAULT 0 CHECK (monthly_contribution >= 0),
		target_date DATE NULL,
		is_paused BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS saving_goals_user_idx ON saving_goals(user_id, created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range schema {
		if _, err := pool.Exec(ctx, s); err != nil {
			logger.Get().Error("schema ensure failed", zap.Error(err), zap.String("stmt", s))
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
