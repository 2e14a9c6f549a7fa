package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/models"
	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// WorkHandler manages work endpoints and the recent-updates feed.
type WorkHandler struct {
	works    *service.WorkService
	programs *service.ProgramService
}

// NewWorkHandler constructs handler.
func NewWorkHandler(works *service.WorkService, programs *service.ProgramService) *WorkHandler {
	return &WorkHandler{works: works, programs: programs}
}

// List godoc
// @Summary List works
// @Tags Works
// @Produce json
// @Param q query string false "Name search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /works [get]
func (h *WorkHandler) List(c *gin.Context) {
	var filter models.WorkFilter
	filter.Search = c.Query("q")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	works, total, err := h.works.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, works, pagination)
}

// Search godoc
// @Summary Incremental title search
// @Tags Works
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Result cap"
// @Success 200 {object} response.Envelope
// @Router /works/search [get]
func (h *WorkHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	works, err := h.works.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, works, nil)
}

// Get godoc
// @Summary Load one work
// @Tags Works
// @Produce json
// @Param id path int true "Work id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /works/{id} [get]
func (h *WorkHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "work id must be a positive integer"))
		return
	}

	work, err := h.works.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, work, nil)
}

// Programs godoc
// @Summary Programs of one work in editor order
// @Tags Works
// @Produce json
// @Param id path int true "Work id"
// @Success 200 {object} response.Envelope
// @Router /works/{id}/programs [get]
func (h *WorkHandler) Programs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "work id must be a positive integer"))
		return
	}

	programs, err := h.programs.ListByWork(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// Create godoc
// @Summary Create work
// @Tags Works
// @Accept json
// @Produce json
// @Param payload body service.WorkRequest true "Work payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /works [post]
func (h *WorkHandler) Create(c *gin.Context) {
	var req service.WorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid work payload"))
		return
	}

	work, err := h.works.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, work)
}

// Update godoc
// @Summary Update work
// @Tags Works
// @Accept json
// @Produce json
// @Param id path int true "Work id"
// @Param payload body service.WorkRequest true "Work payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /works/{id} [put]
func (h *WorkHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "work id must be a positive integer"))
		return
	}

	var req service.WorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid work payload"))
		return
	}

	work, err := h.works.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, work, nil)
}

// Delete godoc
// @Summary Delete work and its programs
// @Tags Works
// @Param id path int true "Work id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /works/{id} [delete]
func (h *WorkHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "work id must be a positive integer"))
		return
	}

	if err := h.works.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Updates godoc
// @Summary Recent work creations and updates
// @Tags Works
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /updates [get]
func (h *WorkHandler) Updates(c *gin.Context) {
	feed, err := h.works.Timeline(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed, nil)
}
