package handlers

import (
	"net/http"

	"arcadehub/models"
	"arcadehub/services/rental"
	"arcadehub/utils"

	"github.com/gin-gonic/gin"
)

func (hb *HandlerBundle) CreateTemplateHandler(c *gin.Context) {
	var template models.SlotTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}

	created, err := hb.TimeSlots.CreateTemplate(c.Request.Context(), &template)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (hb *HandlerBundle) ListTemplatesHandler(c *gin.Context) {
	var filter models.TemplateFilter
	if t := c.Query("type"); t != "" {
		slotType := models.SlotType(t)
		filter.Type = &slotType
	}
	if a := c.Query("active"); a != "" {
		active := a == "true"
		filter.Active = &active
	}
	filter.YouthOnly = c.Query("youth_only") == "true"

	templates, err := hb.TimeSlots.ListTemplates(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (hb *HandlerBundle) UpdateTemplateHandler(c *gin.Context) {
	var template models.SlotTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}
	template.ID = c.Param("id")

	updated, err := hb.TimeSlots.UpdateTemplate(c.Request.Context(), &template)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (hb *HandlerBundle) DeleteTemplateHandler(c *gin.Context) {
	if err := hb.TimeSlots.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (hb *HandlerBundle) BindTemplatesHandler(c *gin.Context) {
	var req struct {
		TemplateIDs []string `json:"templateIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}

	schedule, err := hb.TimeSlots.BindTemplates(c.Request.Context(), c.Param("date"), c.Param("deviceTypeId"), req.TemplateIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (hb *HandlerBundle) ToggleTemplateActiveHandler(c *gin.Context) {
	template, err := hb.TimeSlots.ToggleTemplateActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (hb *HandlerBundle) BindTemplatesRangeHandler(c *gin.Context) {
	var req struct {
		FromDate     string   `json:"fromDate" binding:"required"`
		ToDate       string   `json:"toDate" binding:"required"`
		DeviceTypeID string   `json:"deviceTypeId" binding:"required"`
		TemplateIDs  []string `json:"templateIds" binding:"required"`
		Repeat       string   `json:"repeat"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "invalid request body",
			map[string]any{"cause": err.Error()})
		return
	}

	schedules, err := hb.TimeSlots.BindTemplatesRange(c.Request.Context(), req.FromDate, req.ToDate, req.DeviceTypeID, req.TemplateIDs, models.RepeatKind(req.Repeat))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedules)
}

func (hb *HandlerBundle) ListSchedulesHandler(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, rental.CodeValidation, "from and to query parameters are required", nil)
		return
	}

	schedules, err := hb.TimeSlots.ListSchedules(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (hb *HandlerBundle) GetScheduleHandler(c *gin.Context) {
	schedule, err := hb.TimeSlots.GetSchedule(c.Request.Context(), c.Param("date"), c.Param("deviceTypeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if schedule == nil {
		utils.JSONError(c, http.StatusNotFound, rental.CodeNotFound, "no schedule bound for date and device type", nil)
		return
	}
	c.JSON(http.StatusOK, schedule)
}
