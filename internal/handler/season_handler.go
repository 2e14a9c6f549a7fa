package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// SeasonHandler manages season endpoints.
type SeasonHandler struct {
	service *service.SeasonService
}

// NewSeasonHandler constructs handler.
func NewSeasonHandler(svc *service.SeasonService) *SeasonHandler {
	return &SeasonHandler{service: svc}
}

// List godoc
// @Summary List seasons in selector order
// @Tags Seasons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /seasons [get]
func (h *SeasonHandler) List(c *gin.Context) {
	seasons, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seasons, nil)
}

// Get godoc
// @Summary Load one season
// @Tags Seasons
// @Produce json
// @Param id path int true "Season id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /seasons/{id} [get]
func (h *SeasonHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season id must be a positive integer"))
		return
	}

	season, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// Create godoc
// @Summary Create season
// @Tags Seasons
// @Accept json
// @Produce json
// @Param payload body service.SeasonRequest true "Season payload"
// @Success 201 {object} response.Envelope
// @Router /seasons [post]
func (h *SeasonHandler) Create(c *gin.Context) {
	var req service.SeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid season payload"))
		return
	}

	season, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, season)
}

// Update godoc
// @Summary Update season
// @Tags Seasons
// @Accept json
// @Produce json
// @Param id path int true "Season id"
// @Param payload body service.SeasonRequest true "Season payload"
// @Success 200 {object} response.Envelope
// @Router /seasons/{id} [put]
func (h *SeasonHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season id must be a positive integer"))
		return
	}

	var req service.SeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid season payload"))
		return
	}

	season, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// Delete godoc
// @Summary Delete season
// @Tags Seasons
// @Param id path int true "Season id"
// @Success 204
// @Router /seasons/{id} [delete]
func (h *SeasonHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season id must be a positive integer"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
