package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skillswap/models"
)

// GetByID retrieves a session by its ID.
func (repo *MongoSessionRepo) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := repo.sessionColl.FindOne(ctxWithTimeout, bson.M{"id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching session %s: %w", sessionID, err)
	}
	return &session, nil
}

// ListByParticipant returns sessions where userID is requester or provider,
// most recent start first. With upcomingOnly, only sessions ending after now.
func (repo *MongoSessionRepo) ListByParticipant(ctx context.Context, userID string, upcomingOnly bool, now time.Time) ([]models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"$or": bson.A{
			bson.M{"requester_id": userID},
			bson.M{"provider_id": userID},
		},
	}
	if upcomingOnly {
		filter["scheduled_end"] = bson.M{"$gt": now}
	}

	opts := options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: -1}})
	cursor, err := repo.sessionColl.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions for participant %s: %w", userID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var sessions []models.Session
	if err := cursor.All(ctxWithTimeout, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding sessions for participant %s: %w", userID, err)
	}
	return sessions, nil
}
