// Package repo implements the data persistence layer for consultation
// records, backed by MongoDB. This file contains connection bootstrapping
// and index management.
package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-legal-backend/internal/config"
	"github.com/tbourn/go-legal-backend/internal/domain"
)

// Connect opens a MongoDB client, verifies connectivity with a ping, and
// returns the client together with the application database handle. The
// connection is a shared, long-lived resource: callers connect once at
// process start and reuse the handle for every request.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(cfg.Database), nil
}

// ConsultationCollection returns the collection holding consultation records.
func ConsultationCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(domain.ConsultationRecord{}.CollectionName())
}

// EnsureIndexes creates the userId/timestamp index backing history queries.
// Index creation is idempotent on the server side.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "timestamp", Value: -1},
		},
	})
	return err
}
