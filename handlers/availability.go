package handlers

import (
	"net/http"
	"strconv"

	"arcadehub/services/rental"
	"arcadehub/utils"

	"github.com/gin-gonic/gin"
)

// CheckAvailabilityHandler answers GET /api/availability queries.
func (hb *HandlerBundle) CheckAvailabilityHandler(c *gin.Context) {
	deviceID := c.Query("device_id")
	date := c.Query("date")
	if deviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "device_id and date are required", nil)
		return
	}
	startHour, err := strconv.Atoi(c.Query("start_hour"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "start_hour must be an integer", nil)
		return
	}
	endHour, err := strconv.Atoi(c.Query("end_hour"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "end_hour must be an integer", nil)
		return
	}

	start, end, err := rental.NormalizeRange(startHour, endHour)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := hb.Checker.CheckAvailability(c.Request.Context(), deviceID, date, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
