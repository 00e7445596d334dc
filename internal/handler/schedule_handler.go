package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unpuzzledd/academy-api/internal/service"
	"github.com/unpuzzledd/academy-api/pkg/response"
)

// ScheduleHandler serves materialized schedules.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// GetSchedule godoc
// @Summary Get materialized schedule
// @Description Returns the batch's class occurrences with exceptions applied, ordered by date
// @Tags Schedule
// @Produce json
// @Param id path string true "Batch ID"
// @Param from query string false "Range start (YYYY-MM-DD), defaults to today"
// @Param to query string false "Range end (YYYY-MM-DD), defaults to batch end date"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/schedule [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	merged, err := h.service.GetBatchSchedule(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, merged, nil)
}

// Next godoc
// @Summary Get next class
// @Description Returns the first upcoming occurrence that is not cancelled
// @Tags Schedule
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/schedule/next [get]
func (h *ScheduleHandler) Next(c *gin.Context) {
	occurrence, err := h.service.NextOccurrence(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrence, nil)
}
