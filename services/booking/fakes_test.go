package booking

import (
	"context"
	"sync"
	"time"

	sessionRepo "skillswap/database/repository/session"
	"skillswap/models"
)

// fakeClock returns a fixed instant so transition guards are deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	events    []models.TransitionEvent
	reminders []string
}

func (n *recordingNotifier) PublishTransition(ctx context.Context, event models.TransitionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) ScheduleReminder(ctx context.Context, session *models.Session) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, session.ID)
}

func (n *recordingNotifier) Events() []models.TransitionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.TransitionEvent, len(n.events))
	copy(out, n.events)
	return out
}

// fakeSessionRepo is an in-memory SessionRepository preserving the store's
// atomicity contract: conflict checks and writes run under one lock, and
// conditional updates fail with ErrNoMatch when their precondition does not hold.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func cloneSession(s *models.Session) *models.Session {
	out := *s
	if s.Feedback != nil {
		out.Feedback = append([]models.Feedback(nil), s.Feedback...)
	}
	if s.Alternative != nil {
		alt := *s.Alternative
		out.Alternative = &alt
	}
	return &out
}

func (r *fakeSessionRepo) overlappingLocked(userID string, start, end time.Time, excludeID string) []models.Session {
	var out []models.Session
	for _, s := range r.sessions {
		if s.ID == excludeID || !s.OccupiesCalendar() {
			continue
		}
		if s.RequesterID != userID && s.ProviderID != userID {
			continue
		}
		if models.Overlaps(s.ScheduledStart, s.ScheduledEnd, start, end) {
			out = append(out, *cloneSession(s))
		}
	}
	return out
}

func (r *fakeSessionRepo) bothCalendarsLocked(s *models.Session, start, end time.Time, excludeID string) []models.Session {
	seen := make(map[string]bool)
	var conflicts []models.Session
	for _, userID := range []string{s.RequesterID, s.ProviderID} {
		for _, c := range r.overlappingLocked(userID, start, end, excludeID) {
			if !seen[c.ID] {
				seen[c.ID] = true
				conflicts = append(conflicts, c)
			}
		}
	}
	return conflicts
}

func (r *fakeSessionRepo) CreateSession(ctx context.Context, session *models.Session) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conflicts := r.bothCalendarsLocked(session, session.ScheduledStart, session.ScheduledEnd, ""); len(conflicts) > 0 {
		return conflicts, nil
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil, nil
}

func (r *fakeSessionRepo) Reschedule(ctx context.Context, sessionID string, expectedStatus models.SessionStatus, expectedVersion int,
	newStart, newEnd time.Time, proposal models.AlternativeProposal) ([]models.Session, *models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil, sessionRepo.ErrNotFound
	}
	if conflicts := r.bothCalendarsLocked(s, newStart, newEnd, sessionID); len(conflicts) > 0 {
		return conflicts, nil, nil
	}
	if s.Status != expectedStatus || s.Version != expectedVersion {
		return nil, nil, sessionRepo.ErrNoMatch
	}

	s.Status = models.StatusPending
	s.ScheduledStart = newStart
	s.ScheduledEnd = newEnd
	s.Alternative = &proposal
	s.Version++
	return nil, cloneSession(s), nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) ListByParticipant(ctx context.Context, userID string, upcomingOnly bool, now time.Time) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Session
	for _, s := range r.sessions {
		if s.RequesterID != userID && s.ProviderID != userID {
			continue
		}
		if upcomingOnly && !s.ScheduledEnd.After(now) {
			continue
		}
		out = append(out, *cloneSession(s))
	}
	return out, nil
}

func (r *fakeSessionRepo) FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlappingLocked(userID, start, end, excludeID), nil
}

func (r *fakeSessionRepo) Accept(ctx context.Context, sessionID string, at time.Time) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != models.StatusPending {
		return nil, sessionRepo.ErrNoMatch
	}
	s.Status = models.StatusAccepted
	if s.RespondedAt == nil {
		respondedAt := at
		s.RespondedAt = &respondedAt
	}
	s.UpdatedAt = at
	s.Version++
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) Reject(ctx context.Context, sessionID, reason string, at time.Time) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != models.StatusPending {
		return nil, sessionRepo.ErrNoMatch
	}
	s.Status = models.StatusRejected
	s.RejectionReason = reason
	if s.RespondedAt == nil {
		respondedAt := at
		s.RespondedAt = &respondedAt
	}
	s.UpdatedAt = at
	s.Version++
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) Cancel(ctx context.Context, sessionID string, expectedStatus models.SessionStatus, reason string, at time.Time) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != expectedStatus {
		return nil, sessionRepo.ErrNoMatch
	}
	s.Status = models.StatusCancelled
	cancelledAt := at
	s.CancelledAt = &cancelledAt
	s.CancellationReason = reason
	s.UpdatedAt = at
	s.Version++
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) Complete(ctx context.Context, sessionID, notes string, at time.Time) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != models.StatusAccepted {
		return nil, sessionRepo.ErrNoMatch
	}
	s.Status = models.StatusCompleted
	completedAt := at
	s.CompletedAt = &completedAt
	s.CompletionNotes = notes
	s.UpdatedAt = at
	s.Version++
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) AddFeedback(ctx context.Context, sessionID string, fb models.Feedback) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Status != models.StatusCompleted || s.HasFeedbackFrom(fb.ReviewerID) {
		return nil, sessionRepo.ErrNoMatch
	}
	s.Feedback = append(s.Feedback, fb)
	s.UpdatedAt = fb.CreatedAt
	s.Version++
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) EnsureIndexes(ctx context.Context) error { return nil }

// newTestService wires a booking service onto the fakes at the given instant.
func newTestService(now time.Time) (*DefaultBookingService, *fakeSessionRepo, *recordingNotifier, *fakeClock) {
	repo := newFakeSessionRepo()
	notifier := &recordingNotifier{}
	clock := &fakeClock{t: now}
	svc := &DefaultBookingService{
		Repo:     repo,
		Notifier: notifier,
		Clock:    clock,
	}
	return svc, repo, notifier, clock
}
