package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unpuzzledd/academy-api/internal/service"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
	"github.com/unpuzzledd/academy-api/pkg/response"
)

// ExceptionHandler exposes schedule exception endpoints.
type ExceptionHandler struct {
	service *service.ExceptionService
}

// NewExceptionHandler constructs an exception handler.
func NewExceptionHandler(svc *service.ExceptionService) *ExceptionHandler {
	return &ExceptionHandler{service: svc}
}

// ListByBatch godoc
// @Summary List schedule exceptions
// @Tags Exceptions
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/exceptions [get]
func (h *ExceptionHandler) ListByBatch(c *gin.Context) {
	exceptions, err := h.service.ListByBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exceptions, nil)
}

// Create godoc
// @Summary Create schedule exception
// @Description Records a one-off change for a specific date; only one exception per date is allowed
// @Tags Exceptions
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body service.CreateExceptionRequest true "Exception payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batches/{id}/exceptions [post]
func (h *ExceptionHandler) Create(c *gin.Context) {
	var req service.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	exception, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exception)
}

// Update godoc
// @Summary Update schedule exception
// @Tags Exceptions
// @Accept json
// @Produce json
// @Param id path string true "Exception ID"
// @Param payload body service.UpdateExceptionRequest true "Exception payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exceptions/{id} [put]
func (h *ExceptionHandler) Update(c *gin.Context) {
	var req service.UpdateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	exception, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exception, nil)
}

// Delete godoc
// @Summary Delete schedule exception
// @Tags Exceptions
// @Produce json
// @Param id path string true "Exception ID"
// @Success 204
// @Router /exceptions/{id} [delete]
func (h *ExceptionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
