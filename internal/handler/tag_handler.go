package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// TagHandler manages tag endpoints.
type TagHandler struct {
	service *service.TagService
}

// NewTagHandler constructs handler.
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{service: svc}
}

// List godoc
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tags, nil)
}

// Create godoc
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param payload body service.TagRequest true "Tag payload"
// @Success 201 {object} response.Envelope
// @Router /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req service.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tag payload"))
		return
	}

	tag, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tag)
}

// Update godoc
// @Summary Update tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path int true "Tag id"
// @Param payload body service.TagRequest true "Tag payload"
// @Success 200 {object} response.Envelope
// @Router /tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tag id must be a positive integer"))
		return
	}

	var req service.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tag payload"))
		return
	}

	tag, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tag, nil)
}

// Delete godoc
// @Summary Delete tag
// @Tags Tags
// @Param id path int true "Tag id"
// @Success 204
// @Router /tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tag id must be a positive integer"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
