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

// applyTransition runs a single conditional update and returns the post-update
// document. The filter carries the expected prior status, so a transition that
// lost a race (or was never legal) comes back as ErrNoMatch with nothing written.
func (repo *MongoSessionRepo) applyTransition(ctx context.Context, filter, update bson.M) (*models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Session
	err := repo.sessionColl.FindOneAndUpdate(ctxWithTimeout, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("error applying session transition: %w", err)
	}
	return &updated, nil
}

// Accept moves a pending session to accepted. responded_at is written with
// $min so the first response keeps the timestamp across re-acceptances after
// an alternative-time proposal.
func (repo *MongoSessionRepo) Accept(ctx context.Context, sessionID string, at time.Time) (*models.Session, error) {
	filter := bson.M{"id": sessionID, "status": models.StatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":     models.StatusAccepted,
			"updated_at": at,
		},
		"$min": bson.M{"responded_at": at},
		"$inc": bson.M{"version": 1},
	}
	return repo.applyTransition(ctx, filter, update)
}

// Reject moves a pending session to rejected with the given reason.
func (repo *MongoSessionRepo) Reject(ctx context.Context, sessionID, reason string, at time.Time) (*models.Session, error) {
	filter := bson.M{"id": sessionID, "status": models.StatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":           models.StatusRejected,
			"rejection_reason": reason,
			"updated_at":       at,
		},
		"$min": bson.M{"responded_at": at},
		"$inc": bson.M{"version": 1},
	}
	return repo.applyTransition(ctx, filter, update)
}

// Cancel moves the session to cancelled, conditioned on the status the caller
// evaluated its cancellation policy against.
func (repo *MongoSessionRepo) Cancel(ctx context.Context, sessionID string, expectedStatus models.SessionStatus, reason string, at time.Time) (*models.Session, error) {
	filter := bson.M{"id": sessionID, "status": expectedStatus}
	update := bson.M{
		"$set": bson.M{
			"status":              models.StatusCancelled,
			"cancelled_at":        at,
			"cancellation_reason": reason,
			"updated_at":          at,
		},
		"$inc": bson.M{"version": 1},
	}
	return repo.applyTransition(ctx, filter, update)
}

// Complete moves an accepted session to completed.
func (repo *MongoSessionRepo) Complete(ctx context.Context, sessionID, notes string, at time.Time) (*models.Session, error) {
	filter := bson.M{"id": sessionID, "status": models.StatusAccepted}
	set := bson.M{
		"status":       models.StatusCompleted,
		"completed_at": at,
		"updated_at":   at,
	}
	if notes != "" {
		set["completion_notes"] = notes
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	return repo.applyTransition(ctx, filter, update)
}

// AddFeedback appends feedback to a completed session unless the reviewer has
// already submitted one. The filter makes the duplicate check and the push a
// single atomic step.
func (repo *MongoSessionRepo) AddFeedback(ctx context.Context, sessionID string, fb models.Feedback) (*models.Session, error) {
	filter := bson.M{
		"id":     sessionID,
		"status": models.StatusCompleted,
		"feedback": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{"reviewer_id": fb.ReviewerID},
			},
		},
	}
	update := bson.M{
		"$push": bson.M{"feedback": fb},
		"$set":  bson.M{"updated_at": fb.CreatedAt},
		"$inc":  bson.M{"version": 1},
	}
	return repo.applyTransition(ctx, filter, update)
}
