// FILE: database/repository/session/indexes.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the sessions collection.
func (repo *MongoSessionRepo) EnsureIndexes(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on session ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Compound indexes backing the per-participant overlap query
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "scheduled_start", Value: 1}, {Key: "scheduled_end", Value: 1}},
			Options: options.Index().SetName("requester_interval_idx"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "scheduled_start", Value: 1}, {Key: "scheduled_end", Value: 1}},
			Options: options.Index().SetName("provider_interval_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_idx"),
		},
	}

	_, err := repo.sessionColl.Indexes().CreateMany(ctxWithTimeout, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}

	// One marker document per user; booking transactions upsert against it.
	_, err = repo.calendarColl.Indexes().CreateOne(ctxWithTimeout, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_user_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar index: %w", err)
	}
	return nil
}
