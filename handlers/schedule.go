package handlers

import (
	"net/http"

	"arcadehub/models"
	"arcadehub/services/rental"
	"arcadehub/utils"

	"github.com/gin-gonic/gin"
)

func (hb *HandlerBundle) ListScheduleEventsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "date is required", nil)
		return
	}
	events, err := hb.Schedules.ListEvents(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (hb *HandlerBundle) CreateManualEventHandler(c *gin.Context) {
	var event models.ScheduleEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}

	created, err := hb.Schedules.CreateManualEvent(c.Request.Context(), &event)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (hb *HandlerBundle) DeleteScheduleEventHandler(c *gin.Context) {
	if err := hb.Schedules.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReconcileScheduleHandler re-runs derivation for one date on demand.
func (hb *HandlerBundle) ReconcileScheduleHandler(c *gin.Context) {
	date := c.Param("date")
	if err := hb.Schedules.ReconcileDate(c.Request.Context(), date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reconciled", "date": date})
}
