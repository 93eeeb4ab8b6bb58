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

// errConflictsFound aborts a transaction whose conflict check came back
// non-empty. The conflicts themselves travel out via closure capture.
var errConflictsFound = errors.New("conflicting sessions found")

// withTransaction runs fn inside a mongo session transaction via the driver's
// callback API, which retries on transient errors. A write conflict on the
// calendar markers surfaces as such a transient error, so the losing side of
// a race re-runs fn against a fresh snapshot that includes the winner's commit.
func (repo *MongoSessionRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.sessionColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// calendarTouch is the filter/update pair that bumps a user's calendar marker.
func calendarTouch(userID string) (bson.M, bson.M) {
	return bson.M{"user_id": userID}, bson.M{"$inc": bson.M{"revision": 1}}
}

// touchCalendars bumps the calendar marker of both participants inside the
// transaction. Snapshot isolation alone would let two concurrent bookings for
// the same participant each see an empty calendar and both commit; writing a
// document shared by every booking of that participant forces one of them to
// abort with a write conflict and retry against the other's committed state.
func (repo *MongoSessionRepo) touchCalendars(ctx context.Context, session *models.Session) error {
	opts := options.Update().SetUpsert(true)
	for _, userID := range []string{session.RequesterID, session.ProviderID} {
		filter, update := calendarTouch(userID)
		if _, err := repo.calendarColl.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("touch calendar for %s failed: %w", userID, err)
		}
	}
	return nil
}

// checkBothCalendars runs the overlap query for each participant of the session
// against [start, end), deduplicating sessions that conflict on both sides.
func (repo *MongoSessionRepo) checkBothCalendars(ctx context.Context, session *models.Session, start, end time.Time, excludeID string) ([]models.Session, error) {
	var conflicts []models.Session
	seen := make(map[string]bool)

	for _, userID := range []string{session.RequesterID, session.ProviderID} {
		found, err := repo.findOverlapping(ctx, userID, start, end, excludeID)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			if !seen[c.ID] {
				seen[c.ID] = true
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts, nil
}

// CreateSession checks both participants' calendars and inserts the session as
// one transaction. The calendar markers serialize racing creates for the same
// participant: both cannot commit, the loser retries and sees the winner.
func (repo *MongoSessionRepo) CreateSession(ctx context.Context, session *models.Session) ([]models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var conflicts []models.Session
	txnFn := func(sc mongo.SessionContext) error {
		conflicts = nil // reset on transaction retry
		if err := repo.touchCalendars(sc, session); err != nil {
			return err
		}
		found, err := repo.checkBothCalendars(sc, session, session.ScheduledStart, session.ScheduledEnd, "")
		if err != nil {
			return err
		}
		if len(found) > 0 {
			conflicts = found
			return errConflictsFound
		}
		if _, err := repo.sessionColl.InsertOne(sc, session); err != nil {
			return fmt.Errorf("insert session failed: %w", err)
		}
		return nil
	}

	if err := repo.withTransaction(ctxWithTimeout, txnFn); err != nil {
		if errors.Is(err, errConflictsFound) {
			return conflicts, nil
		}
		return nil, fmt.Errorf("session create transaction failed: %w", err)
	}
	return nil, nil
}

// Reschedule re-checks both calendars against the new interval, excluding the
// session itself, then moves it to pending at the proposed start. The update is
// conditioned on the status and version the caller read, so a concurrent
// transition or competing proposal surfaces as ErrNoMatch.
func (repo *MongoSessionRepo) Reschedule(ctx context.Context, sessionID string, expectedStatus models.SessionStatus, expectedVersion int,
	newStart, newEnd time.Time, proposal models.AlternativeProposal) ([]models.Session, *models.Session, error) {

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var conflicts []models.Session
	var updated models.Session
	txnFn := func(sc mongo.SessionContext) error {
		conflicts = nil // reset on transaction retry
		var current models.Session
		if err := repo.sessionColl.FindOne(sc, bson.M{"id": sessionID}).Decode(&current); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("error fetching session %s: %w", sessionID, err)
		}

		if err := repo.touchCalendars(sc, &current); err != nil {
			return err
		}
		found, err := repo.checkBothCalendars(sc, &current, newStart, newEnd, sessionID)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			conflicts = found
			return errConflictsFound
		}

		filter := bson.M{"id": sessionID, "status": expectedStatus, "version": expectedVersion}
		update := bson.M{
			"$set": bson.M{
				"status":          models.StatusPending,
				"scheduled_start": newStart,
				"scheduled_end":   newEnd,
				"alternative":     proposal,
				"updated_at":      time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := repo.sessionColl.FindOneAndUpdate(sc, filter, update, opts).Decode(&updated); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNoMatch
			}
			return fmt.Errorf("error rescheduling session %s: %w", sessionID, err)
		}
		return nil
	}

	if err := repo.withTransaction(ctxWithTimeout, txnFn); err != nil {
		switch {
		case errors.Is(err, errConflictsFound):
			return conflicts, nil, nil
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoMatch):
			return nil, nil, err
		default:
			return nil, nil, fmt.Errorf("session reschedule transaction failed: %w", err)
		}
	}
	return nil, &updated, nil
}
