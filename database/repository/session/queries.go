package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"skillswap/models"
)

// overlapFilter builds the calendar-occupancy query for one participant and a
// half-open candidate interval [start, end). Sessions whose status no longer
// occupies the calendar (rejected, cancelled) are skipped; a session ending
// exactly at start, or starting exactly at end, does not overlap.
func overlapFilter(userID string, start, end time.Time, excludeID string) bson.M {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"requester_id": userID},
			bson.M{"provider_id": userID},
		},
		"status":          bson.M{"$nin": bson.A{models.StatusRejected, models.StatusCancelled}},
		"scheduled_start": bson.M{"$lt": end},
		"scheduled_end":   bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// FindOverlapping returns the participant's sessions overlapping [start, end).
func (repo *MongoSessionRepo) FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return repo.findOverlapping(ctxWithTimeout, userID, start, end, excludeID)
}

// findOverlapping runs the overlap query on the given context, which may be a
// mongo session context when called inside a transaction.
func (repo *MongoSessionRepo) findOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]models.Session, error) {
	cursor, err := repo.sessionColl.Find(ctx, overlapFilter(userID, start, end, excludeID))
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping sessions for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding overlapping sessions for %s: %w", userID, err)
	}
	return sessions, nil
}
