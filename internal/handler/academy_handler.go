package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unpuzzledd/academy-api/internal/models"
	"github.com/unpuzzledd/academy-api/internal/service"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
	"github.com/unpuzzledd/academy-api/pkg/response"
)

// AcademyHandler exposes academy CRUD endpoints.
type AcademyHandler struct {
	service *service.AcademyService
}

// NewAcademyHandler constructs an academy handler.
func NewAcademyHandler(svc *service.AcademyService) *AcademyHandler {
	return &AcademyHandler{service: svc}
}

// List godoc
// @Summary List academies
// @Tags Academies
// @Produce json
// @Param owner_id query string false "Filter by owner"
// @Param status query string false "Filter by status"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /academies [get]
func (h *AcademyHandler) List(c *gin.Context) {
	var filter models.AcademyFilter
	filter.OwnerID = c.Query("owner_id")
	filter.Status = models.AcademyStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	academies, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, academies, pagination)
}

// Get godoc
// @Summary Get academy detail
// @Tags Academies
// @Produce json
// @Param id path string true "Academy ID"
// @Success 200 {object} response.Envelope
// @Router /academies/{id} [get]
func (h *AcademyHandler) Get(c *gin.Context) {
	academy, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, academy, nil)
}

// Create godoc
// @Summary Create academy
// @Tags Academies
// @Accept json
// @Produce json
// @Param payload body service.CreateAcademyRequest true "Academy payload"
// @Success 201 {object} response.Envelope
// @Router /academies [post]
func (h *AcademyHandler) Create(c *gin.Context) {
	var req service.CreateAcademyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	academy, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, academy)
}

// Update godoc
// @Summary Update academy
// @Tags Academies
// @Accept json
// @Produce json
// @Param id path string true "Academy ID"
// @Param payload body service.UpdateAcademyRequest true "Academy payload"
// @Success 200 {object} response.Envelope
// @Router /academies/{id} [put]
func (h *AcademyHandler) Update(c *gin.Context) {
	var req service.UpdateAcademyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	academy, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, academy, nil)
}

// Delete godoc
// @Summary Delete academy
// @Tags Academies
// @Produce json
// @Param id path string true "Academy ID"
// @Success 204
// @Router /academies/{id} [delete]
func (h *AcademyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
