package repository

import (
	"context"
	"fmt"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCounterRepository implements domain.CounterRepository with one
// document per scope and an atomic $inc. Concurrent callers get
// distinct values because the increment happens store-side.
type MongoCounterRepository struct {
	collection *mongo.Collection
}

// NewMongoCounterRepository creates a new counter repository
func NewMongoCounterRepository(db *mongo.Database) *MongoCounterRepository {
	return &MongoCounterRepository{collection: db.Collection("counters")}
}

func (r *MongoCounterRepository) Next(ctx context.Context, scope string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": scope},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", scope, domainTransient(err))
	}
	return doc.Seq, nil
}

// domainTransient tags store errors from the counter as retryable; the
// payment recorder falls back to a random token when this fails.
func domainTransient(err error) error {
	return fmt.Errorf("%v: %w", err, domain.ErrTransient)
}
