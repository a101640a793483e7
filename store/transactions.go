package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finboard/backend/apperrors"
	"finboard/backend/models"
)

const maxPageSize = 500

func (g *Gateway) ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	if err := scope(userID, ""); err != nil {
		return nil, err
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperrors.Invalid("type", "must be one of: income expense")
	}
	if f.Limit < 0 || f.Limit > maxPageSize {
		return nil, apperrors.Invalid("limit", "must be between 1 and 500")
	}
	if f.Offset < 0 {
		return nil, apperrors.Invalid("offset", "must be 0 or greater")
	}
	txs, err := g.backend.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, apperrors.Internal("list transactions", err)
	}
	return txs, nil
}

func (g *Gateway) GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	if err := scope(userID, id); err != nil {
		return models.Transaction{}, err
	}
	t, err := g.backend.GetTransaction(ctx, userID, id)
	return t, apperrors.Internal("get transaction", err)
}

func (g *Gateway) CreateTransaction(ctx context.Context, userID string, in models.TransactionInput) (models.Transaction, error) {
	if err := scope(userID, ""); err != nil {
		return models.Transaction{}, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Transaction{}, err
	}

	t := g.newTransaction(userID, in, g.now())
	if err := g.backend.InsertTransaction(ctx, t); err != nil {
		return models.Transaction{}, apperrors.Internal("create transaction", err)
	}
	return t, nil
}

// CreateTransactions stores a batch atomically. Every input is validated
// first; a failure reports the offending index in each detail field
// ("[2].amount") and nothing is written.
func (g *Gateway) CreateTransactions(ctx context.Context, userID string, ins []models.TransactionInput) ([]models.Transaction, error) {
	if err := scope(userID, ""); err != nil {
		return nil, err
	}
	if len(ins) == 0 {
		return []models.Transaction{}, nil
	}

	now := g.now()
	txs := make([]models.Transaction, 0, len(ins))
	for i, in := range ins {
		in.Normalize()
		if err := in.Validate(); err != nil {
			return nil, indexed(i, err)
		}
		txs = append(txs, g.newTransaction(userID, in, now))
	}
	if err := g.backend.InsertTransactions(ctx, txs); err != nil {
		return nil, apperrors.Internal("create transactions", err)
	}
	return txs, nil
}

func (g *Gateway) newTransaction(userID string, in models.TransactionInput, now time.Time) models.Transaction {
	return models.Transaction{
		ID:        g.newID(),
		UserID:    userID,
		Type:      in.Type,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.DateOr(now),
		Note:      in.Note,
		Source:    in.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// indexed prefixes the detail fields of a validation error with the batch
// position of the input that failed.
func indexed(i int, err error) error {
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := &apperrors.ValidationError{Message: ve.Message, Details: make([]apperrors.FieldError, len(ve.Details))}
	for j, d := range ve.Details {
		out.Details[j] = apperrors.FieldError{Field: fmt.Sprintf("[%d].%s", i, d.Field), Message: d.Message}
	}
	return out
}

func (g *Gateway) UpdateTransaction(ctx context.Context, userID, id string, p models.TransactionPatch) (models.Transaction, error) {
	if err := scope(userID, id); err != nil {
		return models.Transaction{}, err
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Transaction{}, err
	}

	t, err := g.backend.GetTransaction(ctx, userID, id)
	if err != nil {
		return models.Transaction{}, apperrors.Internal("get transaction", err)
	}
	p.Apply(&t)
	t.UpdatedAt = g.now()
	if err := g.backend.UpdateTransaction(ctx, t); err != nil {
		return models.Transaction{}, apperrors.Internal("update transaction", err)
	}
	return t, nil
}

func (g *Gateway) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := scope(userID, id); err != nil {
		return err
	}
	return apperrors.Internal("delete transaction", g.backend.DeleteTransaction(ctx, userID, id))
}

// TransactionCategories returns the distinct categories the user has used,
// alphabetically. An empty typ means both kinds.
func (g *Gateway) TransactionCategories(ctx context.Context, userID string, typ models.TransactionType) ([]string, error) {
	if err := scope(userID, ""); err != nil {
		return nil, err
	}
	if typ != "" && !typ.Valid() {
		return nil, apperrors.Invalid("type", "must be one of: income expense")
	}
	cats, err := g.backend.TransactionCategories(ctx, userID, typ)
	if err != nil {
		return nil, apperrors.Internal("transaction categories", err)
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}
