package handlers

import (
	"context"
	"net/http"

	"arcadehub/models"
	"arcadehub/services/rental"
	"arcadehub/utils"

	"github.com/gin-gonic/gin"
)

// CreateReservationHandler books a slot and returns the pending reservation.
func (hb *HandlerBundle) CreateReservationHandler(c *gin.Context) {
	var req rental.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	res, err := hb.Rental.CreateReservation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ValidateRentalHandler runs the limit guard without booking anything.
func (hb *HandlerBundle) ValidateRentalHandler(c *gin.Context) {
	var req struct {
		UserID      string   `json:"userId" binding:"required"`
		DeviceIDs   []string `json:"deviceIds" binding:"required"`
		Date        string   `json:"date" binding:"required"`
		IsTwoPlayer bool     `json:"isTwoPlayer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}

	report, err := hb.Guard.ValidateRentalRequest(c.Request.Context(), req.UserID, req.DeviceIDs, req.Date, req.IsTwoPlayer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (hb *HandlerBundle) GetReservationHandler(c *gin.Context) {
	res, err := hb.Rental.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (hb *HandlerBundle) GetUserRentalStatusHandler(c *gin.Context) {
	status, err := hb.Guard.GetUserRentalStatus(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (hb *HandlerBundle) ApproveReservationHandler(c *gin.Context) {
	hb.transitionHandler(c, hb.Rental.Approve)
}

func (hb *HandlerBundle) RejectReservationHandler(c *gin.Context) {
	hb.transitionHandler(c, hb.Rental.Reject)
}

func (hb *HandlerBundle) CancelReservationHandler(c *gin.Context) {
	hb.transitionHandler(c, hb.Rental.Cancel)
}

func (hb *HandlerBundle) CheckInReservationHandler(c *gin.Context) {
	hb.transitionHandler(c, hb.Rental.CheckIn)
}

func (hb *HandlerBundle) CompleteReservationHandler(c *gin.Context) {
	hb.transitionHandler(c, hb.Rental.Complete)
}

func (hb *HandlerBundle) NoShowReservationHandler(c *gin.Context) {
	hb.transitionHandler(c, hb.Rental.MarkNoShow)
}

func (hb *HandlerBundle) transitionHandler(c *gin.Context, op func(ctx context.Context, id string) (*models.Reservation, error)) {
	res, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
