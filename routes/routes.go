package routes

import (
	"net/http"
	"time"

	"arcadehub/handlers"
	"arcadehub/middleware"
	"arcadehub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAvailabilityRoutes registers the availability query endpoint.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/availability", hb.CheckAvailabilityHandler)
}

// RegisterReservationRoutes registers booking and lifecycle endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.POST("", hb.CreateReservationHandler)
		api.POST("/validate", hb.ValidateRentalHandler)
		api.GET("/:id", hb.GetReservationHandler)
		api.POST("/:id/approve", hb.ApproveReservationHandler)
		api.POST("/:id/reject", hb.RejectReservationHandler)
		api.POST("/:id/cancel", hb.CancelReservationHandler)
		api.POST("/:id/check-in", hb.CheckInReservationHandler)
		api.POST("/:id/complete", hb.CompleteReservationHandler)
		api.POST("/:id/no-show", hb.NoShowReservationHandler)
	}
	r.GET("/api/users/:userId/rental-status", hb.GetUserRentalStatusHandler)
}

// RegisterTimeSlotRoutes registers template catalog and binding endpoints.
func RegisterTimeSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/templates")
	{
		api.POST("", hb.CreateTemplateHandler)
		api.GET("", hb.ListTemplatesHandler)
		api.PUT("/:id", hb.UpdateTemplateHandler)
		api.POST("/:id/toggle-active", hb.ToggleTemplateActiveHandler)
		api.DELETE("/:id", hb.DeleteTemplateHandler)
	}

	schedules := r.Group("/api/schedules")
	{
		schedules.GET("", hb.ListSchedulesHandler)
		schedules.POST("/range", hb.BindTemplatesRangeHandler)
		schedules.POST("/:date/:deviceTypeId/templates", hb.BindTemplatesHandler)
		schedules.GET("/:date/:deviceTypeId", hb.GetScheduleHandler)
	}
}

// RegisterCatalogRoutes registers device catalog read endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/device-types/:deviceTypeId/devices", hb.ListDevicesHandler)
}

// RegisterScheduleEventRoutes registers derived operating-hours endpoints.
func RegisterScheduleEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule-events")
	{
		api.GET("", hb.ListScheduleEventsHandler)
		api.POST("", hb.CreateManualEventHandler)
		api.DELETE("/:id", hb.DeleteScheduleEventHandler)
		api.POST("/reconcile/:date", hb.ReconcileScheduleHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterMetricsRoute exposes prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware())

	RegisterAvailabilityRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterTimeSlotRoutes(r, hb)
	RegisterScheduleEventRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
