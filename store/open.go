package store

import (
	"context"
	"fmt"
	"net/url"

	"finboard/backend/config"
	"finboard/backend/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Open picks a backend from the DATABASE_URL scheme. Connections are not
// made here; the first query opens them.
func Open(cfg config.Config) (Backend, error) {
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	switch u.Scheme {
	case "memory":
		return NewMemory(), nil
	case "postgres", "postgresql":
		dsn := cfg.DatabaseURL
		return NewPostgres(database.NewLazy(func(ctx context.Context) (*pgxpool.Pool, error) {
			return database.ConnectPostgres(ctx, dsn)
		})), nil
	case "mongodb", "mongodb+srv":
		uri, name := cfg.DatabaseURL, cfg.MongoDatabase
		return NewMongo(database.NewLazy(func(ctx context.Context) (*mongo.Database, error) {
			return database.ConnectMongo(ctx, uri, name)
		})), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
	}
}
