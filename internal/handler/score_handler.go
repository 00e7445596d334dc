package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unpuzzledd/academy-api/internal/models"
	"github.com/unpuzzledd/academy-api/internal/service"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
	"github.com/unpuzzledd/academy-api/pkg/response"
)

// ScoreHandler exposes scoring and export endpoints.
type ScoreHandler struct {
	service *service.ScoreService
}

// NewScoreHandler constructs a score handler.
func NewScoreHandler(svc *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{service: svc}
}

// List godoc
// @Summary List scores for a batch
// @Tags Scores
// @Produce json
// @Param id path string true "Batch ID"
// @Param student_id query string false "Filter by student"
// @Param topic_id query string false "Filter by topic"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/scores [get]
func (h *ScoreHandler) List(c *gin.Context) {
	var filter models.ScoreFilter
	filter.BatchID = c.Param("id")
	filter.StudentID = c.Query("student_id")
	filter.TopicID = c.Query("topic_id")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	scores, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, pagination)
}

// Record godoc
// @Summary Record a score
// @Tags Scores
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body service.RecordScoreRequest true "Score payload"
// @Success 201 {object} response.Envelope
// @Router /batches/{id}/scores [post]
func (h *ScoreHandler) Record(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	score, err := h.service.Record(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, score)
}

// Update godoc
// @Summary Update a score
// @Tags Scores
// @Accept json
// @Produce json
// @Param id path string true "Score ID"
// @Param payload body service.UpdateScoreRequest true "Score payload"
// @Success 200 {object} response.Envelope
// @Router /scores/{id} [put]
func (h *ScoreHandler) Update(c *gin.Context) {
	var req service.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	score, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, score, nil)
}

// Delete godoc
// @Summary Delete a score
// @Tags Scores
// @Produce json
// @Param id path string true "Score ID"
// @Success 204
// @Router /scores/{id} [delete]
func (h *ScoreHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export batch scores
// @Description Downloads the batch score sheet as CSV or PDF
// @Tags Scores
// @Produce octet-stream
// @Param id path string true "Batch ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /batches/{id}/scores/export [get]
func (h *ScoreHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	data, mimeType, err := h.service.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("scores-%s.%s", c.Param("id"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, data)
}
