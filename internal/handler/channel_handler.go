package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// ChannelHandler manages channel and area endpoints.
type ChannelHandler struct {
	service *service.ChannelService
}

// NewChannelHandler constructs handler.
func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: svc}
}

// ListChannels godoc
// @Summary List channels with resolved areas
// @Tags Channels
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /channels [get]
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.service.ListChannels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channels, nil)
}

// GetChannel godoc
// @Summary Load one channel
// @Tags Channels
// @Produce json
// @Param id path int true "Channel id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /channels/{id} [get]
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel id must be a positive integer"))
		return
	}

	channel, err := h.service.GetChannel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// CreateChannel godoc
// @Summary Create channel
// @Tags Channels
// @Accept json
// @Produce json
// @Param payload body service.ChannelRequest true "Channel payload"
// @Success 201 {object} response.Envelope
// @Router /channels [post]
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req service.ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid channel payload"))
		return
	}

	channel, err := h.service.CreateChannel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, channel)
}

// UpdateChannel godoc
// @Summary Update channel
// @Tags Channels
// @Accept json
// @Produce json
// @Param id path int true "Channel id"
// @Param payload body service.ChannelRequest true "Channel payload"
// @Success 200 {object} response.Envelope
// @Router /channels/{id} [put]
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel id must be a positive integer"))
		return
	}

	var req service.ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid channel payload"))
		return
	}

	channel, err := h.service.UpdateChannel(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// DeleteChannel godoc
// @Summary Delete channel
// @Tags Channels
// @Param id path int true "Channel id"
// @Success 204
// @Router /channels/{id} [delete]
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel id must be a positive integer"))
		return
	}

	if err := h.service.DeleteChannel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAreas godoc
// @Summary List areas
// @Tags Areas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /areas [get]
func (h *ChannelHandler) ListAreas(c *gin.Context) {
	areas, err := h.service.ListAreas(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, areas, nil)
}

// CreateArea godoc
// @Summary Create area
// @Tags Areas
// @Accept json
// @Produce json
// @Param payload body service.AreaRequest true "Area payload"
// @Success 201 {object} response.Envelope
// @Router /areas [post]
func (h *ChannelHandler) CreateArea(c *gin.Context) {
	var req service.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid area payload"))
		return
	}

	area, err := h.service.CreateArea(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, area)
}

// UpdateArea godoc
// @Summary Update area
// @Tags Areas
// @Accept json
// @Produce json
// @Param id path int true "Area id"
// @Param payload body service.AreaRequest true "Area payload"
// @Success 200 {object} response.Envelope
// @Router /areas/{id} [put]
func (h *ChannelHandler) UpdateArea(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "area id must be a positive integer"))
		return
	}

	var req service.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid area payload"))
		return
	}

	area, err := h.service.UpdateArea(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area, nil)
}

// DeleteArea godoc
// @Summary Delete area
// @Tags Areas
// @Param id path int true "Area id"
// @Success 204
// @Router /areas/{id} [delete]
func (h *ChannelHandler) DeleteArea(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "area id must be a positive integer"))
		return
	}

	if err := h.service.DeleteArea(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
