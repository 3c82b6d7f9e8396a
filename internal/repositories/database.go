package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

type Repository struct {
	Product ProductRepository
	Mongo   *mongo.Client
}

func New(ctx context.Context, cfg *config.Config) (*Repository, error) {

	if cfg.Storage.Driver == config.StorageDriverMemory {
		slog.Info("Using in-memory catalog store")
		return &Repository{Product: NewMemoryProductRepo()}, nil
	}

	client, err := ConnectMongo(ctx, &cfg.Mongo)
	if err != nil {
		return nil, err
	}

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	if err := EnsureIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Repository{Product: NewProductRepo(coll), Mongo: client}, nil
}

func ConnectMongo(ctx context.Context, cfg *config.Mongo) (*mongo.Client, error) {

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	// Test the connection to make sure the store is reachable
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("✅ Successfully connected to MongoDB", slog.String("database", cfg.Database))

	return client, nil
}

// EnsureIndexes creates the sku uniqueness constraint and the lookup indexes
// used by the list filters. The partial filter keeps products without variants
// out of the unique index.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "variants.sku", Value: 1}},
			Options: options.Index().
				SetName("variants_sku_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "variants.sku", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys:    bson.D{{Key: "variants.color", Value: 1}},
			Options: options.Index().SetName("variants_color"),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r.Mongo == nil {
		return nil
	}

	return r.Mongo.Disconnect(ctx)
}
