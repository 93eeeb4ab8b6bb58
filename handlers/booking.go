package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillswap/models"
	"skillswap/services/booking"
	"skillswap/utils"
)

// BookingHandler maps transport requests onto the booking service. The acting
// identity arrives as an opaque id in the X-User-ID header, set by the
// authenticating gateway in front of this service.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// actingUser extracts the caller's opaque identity.
func actingUser(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "missing identity", "the X-User-ID header is required")
		return "", false
	}
	return userID, true
}

// respondDomainError translates the booking error taxonomy into HTTP statuses.
func (h *BookingHandler) respondDomainError(c *gin.Context, err error) {
	var (
		validationErr   *booking.ValidationError
		conflictErr     *booking.ConflictError
		authErr         *booking.AuthorizationError
		invalidStateErr *booking.InvalidStateError
		notFoundErr     *booking.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validationErr.Error())
	case errors.As(err, &authErr):
		utils.JSONError(c, http.StatusForbidden, "not allowed", authErr.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "session not found", notFoundErr.Error())
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"message":        "time slot unavailable",
			"details":        conflictErr.Error(),
			"conflictingIds": conflictErr.ConflictingIDs,
		})
	case errors.As(err, &invalidStateErr):
		utils.JSONError(c, http.StatusConflict, "transition not allowed", invalidStateErr.Error())
	default:
		h.Logger.Error("booking operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "the operation could not be processed")
	}
}

// CreateSession handles POST /api/sessions.
func (h *BookingHandler) CreateSession(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	// The authenticated caller is always the requester.
	req.RequesterID = userID

	session, err := h.Service.CreateRequest(c.Request.Context(), req)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// RespondToSession handles POST /api/sessions/:id/respond.
func (h *BookingHandler) RespondToSession(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.Respond(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelSession handles POST /api/sessions/:id/cancel.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var req models.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CompleteSession handles POST /api/sessions/:id/complete.
func (h *BookingHandler) CompleteSession(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	// Notes are optional; an empty or absent body is fine.
	var req models.CompleteRequest
	_ = c.ShouldBindJSON(&req)

	session, err := h.Service.Complete(c.Request.Context(), c.Param("id"), userID, req.Notes)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AttachFeedback handles POST /api/sessions/:id/feedback.
func (h *BookingHandler) AttachFeedback(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.AttachFeedback(c.Request.Context(), c.Param("id"), userID, req.Rating, req.Comment)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession handles GET /api/sessions/:id.
func (h *BookingHandler) GetSession(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	session, err := h.Service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	if !session.IsParticipant(userID) {
		utils.JSONError(c, http.StatusForbidden, "not allowed", "only participants may view a session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessions handles GET /api/sessions.
func (h *BookingHandler) ListSessions(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	upcomingOnly := c.Query("upcoming") == "true"
	sessions, err := h.Service.ListSessions(c.Request.Context(), userID, upcomingOnly)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// CheckConflicts handles GET /api/availability/check.
func (h *BookingHandler) CheckConflicts(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var query struct {
		Start           time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		DurationMinutes int       `form:"durationMinutes" binding:"required"`
		ExcludeID       string    `form:"excludeSessionId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	conflicts, err := h.Service.CheckConflicts(c.Request.Context(), userID, query.Start, query.DurationMinutes, query.ExcludeID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	ids := make([]string, 0, len(conflicts))
	for _, s := range conflicts {
		ids = append(ids, s.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"available":      len(conflicts) == 0,
		"conflictingIds": ids,
	})
}
