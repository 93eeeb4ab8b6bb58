package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/models"
)

func acceptedSession(t *testing.T, svc *DefaultBookingService, startIn time.Duration) *models.Session {
	t.Helper()
	req := validCreateRequest()
	req.ScheduledStart = testNow.Add(startIn)
	session := mustCreate(t, svc, req)

	accepted, err := svc.Respond(context.Background(), session.ID, "u2", models.RespondRequest{Action: models.ActionAccept})
	require.NoError(t, err)
	return accepted
}

func TestCancelPendingAnyTime(t *testing.T) {
	svc, _, notifier, _ := newTestService(testNow)
	ctx := context.Background()

	// Pending requests carry no commitment: cancellable even minutes before.
	req := validCreateRequest()
	req.ScheduledStart = testNow.Add(20 * time.Minute)
	session := mustCreate(t, svc, req)

	updated, err := svc.Cancel(ctx, session.ID, "u1", "found another mentor")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelledAt)
	assert.Equal(t, "found another mentor", updated.CancellationReason)

	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, models.StatusCancelled, events[1].ToStatus)
}

func TestCancelAcceptedWithinNoticeWindowFails(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	ctx := context.Background()
	session := acceptedSession(t, svc, time.Hour)

	_, err := svc.Cancel(ctx, session.ID, "u1", "sorry, emergency")
	var invalidStateErr *InvalidStateError
	require.ErrorAs(t, err, &invalidStateErr)
}

func TestCancelAcceptedOutsideNoticeWindow(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	ctx := context.Background()
	session := acceptedSession(t, svc, 3*time.Hour)

	updated, err := svc.Cancel(ctx, session.ID, "u2", "double booked myself")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestCancelExactlyAtNoticeBoundary(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	ctx := context.Background()

	// Exactly the required notice away: still allowed, the window is inclusive.
	session := acceptedSession(t, svc, models.CancellationNotice)
	require.Equal(t, testNow.Add(models.CancellationNotice), session.ScheduledStart)

	updated, err := svc.Cancel(ctx, session.ID, "u1", "cutting it close")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	session := mustCreate(t, svc, validCreateRequest())

	_, err := svc.Cancel(context.Background(), session.ID, "u1", "")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCancelByEitherParticipant(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	ctx := context.Background()

	for _, actor := range []string{"u1", "u2"} {
		session := acceptedSession(t, svc, 72*time.Hour)
		_, err := svc.Cancel(ctx, session.ID, actor, "schedule change")
		require.NoError(t, err, "actor %s", actor)
		// Free the slot for the next round.
	}
}

func TestCancelNonParticipant(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	session := mustCreate(t, svc, validCreateRequest())

	_, err := svc.Cancel(context.Background(), session.ID, "stranger", "nope")
	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
}

func TestCompleteBeforeStartFails(t *testing.T) {
	svc, _, _, _ := newTestService(testNow)
	ctx := context.Background()
	session := acceptedSession(t, svc, 10*time.Minute)

	_, err := svc.Complete(ctx, session.ID, "u1", "")
	var invalidStateErr *InvalidStateError
	require.ErrorAs(t, err, &invalidStateErr)
}

func TestCompleteAfterStart(t *testing.T) {
	svc, _, notifier, clock := newTestService(testNow)
	ctx := context.Background()
	session := acceptedSession(t, svc, 10*time.Minute)

	clock.t = testNow.Add(20 * time.Minute)

	updated, err := svc.Complete(ctx, session.ID, "u2", "great session on goroutines")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, clock.t, *updated.CompletedAt)
	assert.Equal(t, "great session on goroutines", updated.CompletionNotes)

	events := notifier.Events()
	require.Len(t, events, 3)
	assert.Equal(t, models.StatusAccepted, events[2].FromStatus)
	assert.Equal(t, models.StatusCompleted, events[2].ToStatus)
}

func TestCompleteExactlyAtStart(t *testing.T) {
	svc, _, _, clock := newTestService(testNow)
	ctx := context.Background()
	session := acceptedSession(t, svc, time.Hour)

	clock.t = session.ScheduledStart

	_, err := svc.Complete(ctx, session.ID, "u1", "")
	require.NoError(t, err)
}

func TestCompletePendingFails(t *testing.T) {
	svc, _, _, clock := newTestService(testNow)
	session := mustCreate(t, svc, validCreateRequest())

	clock.t = session.ScheduledStart.Add(time.Hour)

	_, err := svc.Complete(context.Background(), session.ID, "u1", "")
	var invalidStateErr *InvalidStateError
	require.ErrorAs(t, err, &invalidStateErr)
}

func TestTerminalStatesAdmitNoTransitions(t *testing.T) {
	ctx := context.Background()

	terminalSession := func(t *testing.T, svc *DefaultBookingService, clock *fakeClock, status models.SessionStatus) *models.Session {
		t.Helper()
		session := mustCreate(t, svc, validCreateRequest())
		switch status {
		case models.StatusRejected:
			_, err := svc.Respond(ctx, session.ID, "u2", models.RespondRequest{Action: models.ActionReject, Reason: "busy"})
			require.NoError(t, err)
		case models.StatusCancelled:
			_, err := svc.Cancel(ctx, session.ID, "u1", "plans changed")
			require.NoError(t, err)
		case models.StatusCompleted:
			_, err := svc.Respond(ctx, session.ID, "u2", models.RespondRequest{Action: models.ActionAccept})
			require.NoError(t, err)
			clock.t = session.ScheduledStart.Add(time.Minute)
			_, err = svc.Complete(ctx, session.ID, "u1", "")
			require.NoError(t, err)
			clock.t = testNow
		}
		return session
	}

	for _, status := range []models.SessionStatus{models.StatusRejected, models.StatusCancelled, models.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			svc, _, _, clock := newTestService(testNow)
			session := terminalSession(t, svc, clock, status)

			var invalidStateErr *InvalidStateError

			_, err := svc.Respond(ctx, session.ID, "u2", models.RespondRequest{Action: models.ActionAccept})
			require.ErrorAs(t, err, &invalidStateErr, "accept from %s", status)

			_, err = svc.Respond(ctx, session.ID, "u2", models.RespondRequest{Action: models.ActionReject, Reason: "r"})
			require.ErrorAs(t, err, &invalidStateErr, "reject from %s", status)

			future := testNow.Add(96 * time.Hour)
			_, err = svc.Respond(ctx, session.ID, "u1", models.RespondRequest{Action: models.ActionProposeAlternative, ProposedStart: &future})
			require.ErrorAs(t, err, &invalidStateErr, "propose from %s", status)

			_, err = svc.Cancel(ctx, session.ID, "u1", "r")
			require.ErrorAs(t, err, &invalidStateErr, "cancel from %s", status)

			clock.t = session.ScheduledStart.Add(2 * time.Hour)
			_, err = svc.Complete(ctx, session.ID, "u1", "")
			require.ErrorAs(t, err, &invalidStateErr, "complete from %s", status)
			clock.t = testNow
		})
	}
}
