package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"finboard/backend/apperrors"
	"finboard/backend/database"
	"finboard/backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores records in the tables created by database.EnsureSchema.
// NUMERIC columns are read back as float8.
type Postgres struct {
	pool *database.Lazy[*pgxpool.Pool]
}

var _ Backend = (*Postgres)(nil)

func NewPostgres(pool *database.Lazy[*pgxpool.Pool]) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) db(ctx context.Context) (*pgxpool.Pool, error) {
	return s.pool.Get(ctx)
}

func (s *Postgres) Ping(ctx context.Context) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (s *Postgres) Close(context.Context) {
	if pool, ok := s.pool.Loaded(); ok {
		pool.Close()
	}
}

// pgError maps driver errors onto the taxonomy.
func pgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &apperrors.ConflictError{Field: "category", Message: "a budget for this category already exists"}
	}
	return err
}

func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const transactionColumns = `id, user_id, type, amount::float8, category, date, note, source, created_at, updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	var typ, source string
	err := row.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Category, &t.Date, &t.Note, &source, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.Type = models.TransactionType(typ)
	t.Source = models.Source(source)
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func (s *Postgres) ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	where := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.StartDate != nil {
		add("date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d", *f.EndDate)
	}

	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY date DESC, created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Postgres) GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	t, err := scanTransaction(pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID))
	return t, pgError(err)
}

const insertTransactionSQL = `
	INSERT INTO transactions (id, user_id, type, amount, category, date, note, source, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func transactionArgs(t models.Transaction) []any {
	return []any{t.ID, t.UserID, string(t.Type), t.Amount, t.Category, t.Date, t.Note, string(t.Source), t.CreatedAt, t.UpdatedAt}
}

func (s *Postgres) InsertTransaction(ctx context.Context, t models.Transaction) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, insertTransactionSQL, transactionArgs(t)...)
	return pgError(err)
}

// InsertTransactions queues every insert in one batch inside one
// transaction.
func (s *Postgres) InsertTransactions(ctx context.Context, txs []models.Transaction) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, t := range txs {
		batch.Queue(insertTransactionSQL, transactionArgs(t)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return pgError(err)
	}
	return tx.Commit(ctx)
}

func (s *Postgres) UpdateTransaction(ctx context.Context, t models.Transaction) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `
		UPDATE transactions SET type = $3, amount = $4, category = $5, date = $6, note = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, string(t.Type), t.Amount, t.Category, t.Date, t.Note, t.UpdatedAt)
	if err != nil {
		return pgError(err)
	}
	return affected(tag)
}

func (s *Postgres) DeleteTransaction(ctx context.Context, userID, id string) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return affected(tag)
}

func (s *Postgres) TransactionCategories(ctx context.Context, userID string, typ models.TransactionType) ([]string, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	q := `SELECT DISTINCT category FROM transactions WHERE user_id = $1`
	args := []any{userID}
	if typ != "" {
		q += ` AND type = $2`
		args = append(args, string(typ))
	}
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	// collation-independent order
	sort.Strings(out)
	return out, rows.Err()
}

const budgetColumns = `id, user_id, category, monthly_limit::float8, created_at, updated_at`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, err
}

func (s *Postgres) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, rows.Err()
}

func (s *Postgres) GetBudget(ctx context.Context, userID, id string) (models.Budget, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return models.Budget{}, err
	}
	b, err := scanBudget(pool.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`, id, userID))
	return b, pgError(err)
}

func (s *Postgres) InsertBudget(ctx context.Context, b models.Budget) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO budgets (id, user_id, category, monthly_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.UserID, b.Category, b.MonthlyLimit, b.CreatedAt, b.UpdatedAt)
	return pgError(err)
}

func (s *Postgres) UpdateBudget(ctx context.Context, b models.Budget) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `
		UPDATE budgets SET category = $3, monthly_limit = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2`,
		b.ID, b.UserID, b.Category, b.MonthlyLimit, b.UpdatedAt)
	if err != nil {
		return pgError(err)
	}
	return affected(tag)
}

func (s *Postgres) DeleteBudget(ctx context.Context, userID, id string) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return affected(tag)
}

// UpsertBudgets runs every row in one transaction so a request either
// lands whole or not at all.
func (s *Postgres) UpsertBudgets(ctx context.Context, userID string, budgets []models.Budget) ([]models.Budget, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		saved, err := scanBudget(tx.QueryRow(ctx, `
			INSERT INTO budgets (id, user_id, category, monthly_limit, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, category) DO UPDATE
			SET monthly_limit = EXCLUDED.monthly_limit, updated_at = EXCLUDED.updated_at
			RETURNING `+budgetColumns,
			b.ID, userID, b.Category, b.MonthlyLimit, b.CreatedAt, b.UpdatedAt))
		if err != nil {
			return nil, pgError(err)
		}
		out = append(out, saved)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

const goalColumns = `id, user_id, name, target_amount::float8, saved_amount::float8, monthly_contribution::float8,
	target_date, is_paused, created_at, updated_at`

func scanGoal(row pgx.Row) (models.SavingGoal, error) {
	var g models.SavingGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.SavedAmount, &g.MonthlyContribution,
		&g.TargetDate, &g.IsPaused, &g.CreatedAt, &g.UpdatedAt)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, err
}

// dateArg sends a DATE as text so the server never shifts it by time zone.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}

func (s *Postgres) ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT `+goalColumns+` FROM saving_goals WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SavingGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Postgres) GetSavingGoal(ctx context.Context, userID, id string) (models.SavingGoal, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return models.SavingGoal{}, err
	}
	g, err := scanGoal(pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM saving_goals WHERE id = $1 AND user_id = $2`, id, userID))
	return g, pgError(err)
}

func (s *Postgres) InsertSavingGoal(ctx context.Context, g models.SavingGoal) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO saving_goals (id, user_id, name, target_amount, saved_amount, monthly_contribution,
			target_date, is_paused, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10)`,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, g.MonthlyContribution,
		dateArg(g.TargetDate), g.IsPaused, g.CreatedAt, g.UpdatedAt)
	return pgError(err)
}

func (s *Postgres) UpdateSavingGoal(ctx context.Context, g models.SavingGoal) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `
		UPDATE saving_goals SET name = $3, target_amount = $4, saved_amount = $5, monthly_contribution = $6,
			target_date = $7::date, is_paused = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, g.MonthlyContribution,
		dateArg(g.TargetDate), g.IsPaused, g.UpdatedAt)
	if err != nil {
		return pgError(err)
	}
	return affected(tag)
}

func (s *Postgres) DeleteSavingGoal(ctx context.Context, userID, id string) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `DELETE FROM saving_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return affected(tag)
}

const userColumns = `id, clerk_id, email, first_name, last_name, display_name, image_url, business_type,
	monthly_income::float8, currency, financial_goals, onboarding_completed, last_synced_at, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	var businessType string
	err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.FirstName, &u.LastName, &u.DisplayName, &u.ImageURL,
		&businessType, &u.MonthlyIncome, &u.Currency, &u.FinancialGoals, &u.OnboardingCompleted,
		&u.LastSyncedAt, &u.CreatedAt, &u.UpdatedAt)
	u.BusinessType = models.BusinessType(businessType)
	if u.FinancialGoals == nil {
		u.FinancialGoals = []string{}
	}
	return u, err
}

func (s *Postgres) UpsertUser(ctx context.Context, u models.User) (models.User, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return models.User{}, err
	}
	saved, err := scanUser(pool.QueryRow(ctx, `
		INSERT INTO users (id, clerk_id, email, first_name, last_name, display_name, image_url,
			currency, financial_goals, last_synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (clerk_id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			display_name = EXCLUDED.display_name,
			image_url = EXCLUDED.image_url,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+userColumns,
		u.ID, u.ClerkID, u.Email, u.FirstName, u.LastName, u.DisplayName, u.ImageURL,
		u.Currency, u.FinancialGoals, u.LastSyncedAt, u.CreatedAt, u.UpdatedAt))
	return saved, pgError(err)
}

func (s *Postgres) GetUser(ctx context.Context, clerkID string) (models.User, error) {
	pool, err := s.db(ctx)
	if err != nil {
		return models.User{}, err
	}
	u, err := scanUser(pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID))
	return u, pgError(err)
}

func (s *Postgres) UpdateUser(ctx context.Context, u models.User) error {
	pool, err := s.db(ctx)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `
		UPDATE users SET display_name = $2, business_type = $3, monthly_income = $4, currency = $5,
			financial_goals = $6, onboarding_completed = $7, updated_at = $8
		WHERE clerk_id = $1`,
		u.ClerkID, u.DisplayName, string(u.BusinessType), u.MonthlyIncome, u.Currency,
		u.FinancialGoals, u.OnboardingCompleted, u.UpdatedAt)
	if err != nil {
		return err
	}
	return affected(tag)
}
