package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/models"
)

func completedSession(t *testing.T, svc *DefaultBookingService, clock *fakeClock) *models.Session {
	t.Helper()
	ctx := context.Background()
	session := mustCreate(t, svc, validCreateRequest())

	_, err := svc.Respond(ctx, session.ID, "u2", models.RespondRequest{Action: models.ActionAccept})
	require.NoError(t, err)

	clock.t = session.ScheduledStart.Add(time.Hour)
	completed, err := svc.Complete(ctx, session.ID, "u1", "")
	require.NoError(t, err)
	return completed
}

func TestAttachFeedback(t *testing.T) {
	svc, _, notifier, clock := newTestService(testNow)
	ctx := context.Background()
	session := completedSession(t, svc, clock)

	updated, err := svc.AttachFeedback(ctx, session.ID, "u1", 5, "patient and clear")
	require.NoError(t, err)

	require.Len(t, updated.Feedback, 1)
	assert.Equal(t, "u1", updated.Feedback[0].ReviewerID)
	assert.Equal(t, 5, updated.Feedback[0].Rating)
	assert.Equal(t, models.StatusCompleted, updated.Status, "feedback does not change status")

	eventsBefore := len(notifier.Events())
	_, err = svc.AttachFeedback(ctx, session.ID, "u2", 4, "")
	require.NoError(t, err)
	assert.Len(t, notifier.Events(), eventsBefore, "feedback emits no transition event")
}

func TestAttachFeedbackDuplicateRejected(t *testing.T) {
	svc, _, _, clock := newTestService(testNow)
	ctx := context.Background()
	session := completedSession(t, svc, clock)

	_, err := svc.AttachFeedback(ctx, session.ID, "u1", 5, "")
	require.NoError(t, err)

	_, err = svc.AttachFeedback(ctx, session.ID, "u1", 3, "changed my mind")
	var invalidStateErr *InvalidStateError
	require.ErrorAs(t, err, &invalidStateErr)

	// The other participant may still review.
	_, err = svc.AttachFeedback(ctx, session.ID, "u2", 4, "")
	require.NoError(t, err)
}

func TestAttachFeedbackRatingBounds(t *testing.T) {
	svc, _, _, clock := newTestService(testNow)
	ctx := context.Background()
	session := completedSession(t, svc, clock)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.AttachFeedback(ctx, session.ID, "u1", rating, "")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "rating %d", rating)
	}

	for _, rating := range []int{models.MinRating, models.MaxRating} {
		svc, _, _, clock := newTestService(testNow)
		session := completedSession(t, svc, clock)
		_, err := svc.AttachFeedback(context.Background(), session.ID, "u1", rating, "")
		require.NoError(t, err, "rating %d", rating)
	}
}

func TestAttachFeedbackRequiresCompletion(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	ctx := context.Background()
	session := mustCreate(t, svc, validCreateRequest())

	_, err := svc.AttachFeedback(ctx, session.ID, "u1", 5, "")
	var invalidStateErr *InvalidStateError
	require.ErrorAs(t, err, &invalidStateErr)
}

func TestAttachFeedbackNonParticipant(t *testing.T) {
	svc, _, _, clock := newTestService(testNow)
	session := completedSession(t, svc, clock)

	_, err := svc.AttachFeedback(context.Background(), session.ID, "stranger", 5, "")
	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
}
