package routes

import (
	"net/http"
	"time"

	"mediquery/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the symptom search session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.POST("", hb.Session.Create)
		api.GET("/:id", hb.Session.Get)
		api.DELETE("/:id", hb.Session.Delete)
		api.GET("/:id/stream", hb.Stream.Stream)

		api.POST("/:id/locate", hb.Session.Locate)
		api.POST("/:id/search", hb.Session.Search)
		api.POST("/:id/followup", hb.Session.OpenFollowUp)
		api.POST("/:id/followup/answer", hb.Session.AnswerFollowUp)
		api.POST("/:id/followup/submit", hb.Session.SubmitFollowUp)
		api.POST("/:id/reset", hb.Session.Reset)

		api.POST("/:id/book", hb.Booking.BookSlot)
	}
}

// RegisterBookingRoutes registers appointment endpoints that do not need a
// session.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.POST("/cancel", hb.Booking.CancelAppointment)
		api.GET("/:patientId", hb.Booking.History)
	}
}

// RegisterRecordsRoutes registers prescription archive endpoints.
func RegisterRecordsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/prescriptions")
	{
		api.POST("/:patientId", hb.Records.Upload)
		api.GET("/:patientId", hb.Records.List)
		api.GET("/:patientId/search", hb.Records.SearchMedicine)
		api.GET("/file/:prescriptionId", hb.Records.Download)
	}
}

// RegisterSharingRoutes registers share link endpoints.
func RegisterSharingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/share")
	{
		api.POST("/:patientId", hb.Sharing.GenerateLink)
		api.POST("/redeem", hb.Sharing.RedeemLink)
	}
}

// RegisterTimelineRoutes registers the medical timeline endpoint.
func RegisterTimelineRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/timeline")
	{
		api.GET("/:patientId", hb.Timeline.Get)
	}
}

// RegisterHealthRoute registers a liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterRecordsRoutes(r, hb)
	RegisterSharingRoutes(r, hb)
	RegisterTimelineRoutes(r, hb)
	RegisterHealthRoute(r)
}
