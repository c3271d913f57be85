package handlers

import (
	"errors"
	"net/http"

	catalogRepo "arcadehub/database/repository/catalog"
	"arcadehub/services/rental"
	"arcadehub/services/schedule"
	"arcadehub/services/timeslot"
	"arcadehub/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the HTTP handlers with the services they front.
type HandlerBundle struct {
	Rental    rental.Service
	Checker   rental.AvailabilityChecker
	Guard     rental.LimitGuard
	TimeSlots timeslot.Service
	Schedules schedule.Service
	Catalog   catalogRepo.Repository
}

// statusFor maps engine error codes to HTTP statuses.
func statusFor(code string) int {
	switch code {
	case rental.CodeValidation:
		return http.StatusBadRequest
	case rental.CodeTimeConflict, rental.CodeInvalidTransition:
		return http.StatusConflict
	case rental.CodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case rental.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a structured engine error, or a generic 500 for
// anything else.
func respondError(c *gin.Context, err error) {
	var engineErr *rental.Error
	if errors.As(err, &engineErr) {
		utils.JSONError(c, statusFor(engineErr.Code), engineErr.Code, engineErr.Message, engineErr.Details)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}
