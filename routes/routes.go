package routes

import (
	"github.com/gin-gonic/gin"

	"skillswap/handlers"
)

// RegisterRoutes registers all endpoints of the booking engine.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler) {
	r.GET("/healthz", handlers.HealthHandler)

	api := r.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", bookingHandler.CreateSession)
			sessions.GET("", bookingHandler.ListSessions)
			sessions.GET("/:id", bookingHandler.GetSession)
			sessions.POST("/:id/respond", bookingHandler.RespondToSession)
			sessions.POST("/:id/cancel", bookingHandler.CancelSession)
			sessions.POST("/:id/complete", bookingHandler.CompleteSession)
			sessions.POST("/:id/feedback", bookingHandler.AttachFeedback)
		}

		api.GET("/availability/check", bookingHandler.CheckConflicts)
	}
}
