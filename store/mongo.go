package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"finboard/backend/apperrors"
	"finboard/backend/database"
	"finboard/backend/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo stores one document per record, keyed by the string id in _id.
type Mongo struct {
	db *database.Lazy[*mongo.Database]
}

var _ Backend = (*Mongo)(nil)

func NewMongo(db *database.Lazy[*mongo.Database]) *Mongo {
	return &Mongo{db: db}
}

func (s *Mongo) coll(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := s.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	db, err := s.db.Get(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, nil)
}

func (s *Mongo) Close(ctx context.Context) {
	if db, ok := s.db.Loaded(); ok {
		database.CloseMongo(ctx, db)
	}
}

func mongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return &apperrors.ConflictError{Field: "category", Message: "a budget for this category already exists"}
	}
	return err
}

func owned(userID, id string) bson.M {
	return bson.M{"_id": id, "userId": userID}
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter bson.M) (T, error) {
	var out T
	err := c.FindOne(ctx, filter).Decode(&out)
	return out, mongoError(err)
}

func replace(ctx context.Context, c *mongo.Collection, filter bson.M, doc any) error {
	res, err := c.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func deleteOwned(ctx context.Context, c *mongo.Collection, userID, id string) error {
	res, err := c.DeleteOne(ctx, owned(userID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Mongo) ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"userId": userID}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.StartDate != nil || f.EndDate != nil {
		date := bson.M{}
		if f.StartDate != nil {
			date["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			date["$lte"] = *f.EndDate
		}
		filter["date"] = date
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}

	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Transaction{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Mongo) GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return models.Transaction{}, err
	}
	return findOne[models.Transaction](ctx, c, owned(userID, id))
}

func (s *Mongo) InsertTransaction(ctx context.Context, t models.Transaction) error {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return err
	}
	_, err = c.InsertOne(ctx, t)
	return mongoError(err)
}

// InsertTransactions inserts the batch in order. When the insert fails
// part-way, the documents already written are removed again.
func (s *Mongo) InsertTransactions(ctx context.Context, txs []models.Transaction) error {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return err
	}
	docs := make([]any, len(txs))
	ids := make([]string, len(txs))
	for i, t := range txs {
		docs[i] = t
		ids[i] = t.ID
	}
	_, err = c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}
	if _, derr := c.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}, "userId": txs[0].UserID}); derr != nil {
		return errors.Join(mongoError(err), fmt.Errorf("undo partial insert: %w", derr))
	}
	return mongoError(err)
}

func (s *Mongo) UpdateTransaction(ctx context.Context, t models.Transaction) error {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return err
	}
	return replace(ctx, c, owned(t.UserID, t.ID), t)
}

func (s *Mongo) DeleteTransaction(ctx context.Context, userID, id string) error {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return err
	}
	return deleteOwned(ctx, c, userID, id)
}

func (s *Mongo) TransactionCategories(ctx context.Context, userID string, typ models.TransactionType) ([]string, error) {
	c, err := s.coll(ctx, database.TransactionCollection)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"userId": userID}
	if typ != "" {
		filter["type"] = typ
	}
	out := []string{}
	if err := c.Distinct(ctx, "category", filter).Decode(&out); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *Mongo) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	c, err := s.coll(ctx, database.BudgetCollection)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "category", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []models.Budget{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Mongo) GetBudget(ctx context.Context, userID, id string) (models.Budget, error) {
	c, err := s.coll(ctx, database.BudgetCollection)
	if err != nil {
		return models.Budget{}, err
	}
	return findOne[models.Budget](ctx, c, owned(userID, id))
}

func (s *Mongo) InsertBudget(ctx context.Context, b models.Budget) error {
	c, err := s.coll(ctx, database.BudgetCollection)
	if err != nil {
		return err
	}
	_, err = c.InsertOne(ctx, b)
	return mongoError(err)
}

func (s *Mongo) UpdateBudget(ctx context.Context, b models.Budget) error {
	c, err := s.coll(ctx, database.BudgetCollection)
	if err != nil {
		return err
	}
	return replace(ctx, c, owned(b.UserID, b.ID), b)
}

func (s *Mongo) DeleteBudget(ctx context.Context, userID, id string) error {
	c, err := s.coll(ctx, database.BudgetCollection)
	if err != nil {
		return err
	}
	return deleteOwned(ctx, c, userID, id)
}

// UpsertBudgets relies on the unique (userId, category) index; a racing
// insert of the same category surfaces as a ConflictError.
func (s *Mongo) UpsertBudgets(ctx context.Context, userID string, budgets []models.Budget) ([]models.Budget, error) {
	c, err := s.coll(ctx, database.BudgetCollection)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	out := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		update := bson.M{
			"$set":         bson.M{"monthlyLimit": b.MonthlyLimit, "updatedAt": b.UpdatedAt},
			"$setOnInsert": bson.M{"_id": b.ID, "createdAt": b.CreatedAt},
		}
		var saved models.Budget
		err := c.FindOneAndUpdate(ctx, bson.M{"userId": userID, "category": b.Category}, update, opts).Decode(&saved)
		if err != nil {
			return nil, mongoError(err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *Mongo) ListSavingGoals(ctx context.Context, userID string) ([]models.SavingGoal, error) {
	c, err := s.coll(ctx, database.SavingGoalCollection)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []models.SavingGoal{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Mongo) GetSavingGoal(ctx context.Context, userID, id string) (models.SavingGoal, error) {
	c, err := s.coll(ctx, database.SavingGoalCollection)
	if err != nil {
		return models.SavingGoal{}, err
	}
	return findOne[models.SavingGoal](ctx, c, owned(userID, id))
}

func (s *Mongo) InsertSavingGoal(ctx context.Context, g models.SavingGoal) error {
	c, err := s.coll(ctx, database.SavingGoalCollection)
	if err != nil {
		return err
	}
	_, err = c.InsertOne(ctx, g)
	return mongoError(err)
}

func (s *Mongo) UpdateSavingGoal(ctx context.Context, g models.SavingGoal) error {
	c, err := s.coll(ctx, database.SavingGoalCollection)
	if err != nil {
		return err
	}
	return replace(ctx, c, owned(g.UserID, g.ID), g)
}

func (s *Mongo) DeleteSavingGoal(ctx context.Context, userID, id string) error {
	c, err := s.coll(ctx, database.SavingGoalCollection)
	if err != nil {
		return err
	}
	return deleteOwned(ctx, c, userID, id)
}

func (s *Mongo) UpsertUser(ctx context.Context, u models.User) (models.User, error) {
	c, err := s.coll(ctx, database.UserCollection)
	if err != nil {
		return models.User{}, err
	}
	update := bson.M{
		"$set": bson.M{
			"email":        u.Email,
			"firstName":    u.FirstName,
			"lastName":     u.LastName,
			"displayName":  u.DisplayName,
			"imageUrl":     u.ImageURL,
			"lastSyncedAt": u.LastSyncedAt,
			"updatedAt":    u.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":                 u.ID,
			"currency":            u.Currency,
			"financialGoals":      u.FinancialGoals,
			"onboardingCompleted": false,
			"createdAt":           u.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved models.User
	if err := c.FindOneAndUpdate(ctx, bson.M{"clerkId": u.ClerkID}, update, opts).Decode(&saved); err != nil {
		return models.User{}, err
	}
	return saved, nil
}

func (s *Mongo) GetUser(ctx context.Context, clerkID string) (models.User, error) {
	c, err := s.coll(ctx, database.UserCollection)
	if err != nil {
		return models.User{}, err
	}
	return findOne[models.User](ctx, c, bson.M{"clerkId": clerkID})
}

func (s *Mongo) UpdateUser(ctx context.Context, u models.User) error {
	c, err := s.coll(ctx, database.UserCollection)
	if err != nil {
		return err
	}
	return replace(ctx, c, bson.M{"clerkId": u.ClerkID}, u)
}
