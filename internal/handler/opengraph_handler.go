package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// OpenGraphHandler serves website preview image lookups.
type OpenGraphHandler struct {
	service *service.OpenGraphService
}

// NewOpenGraphHandler constructs handler.
func NewOpenGraphHandler(svc *service.OpenGraphService) *OpenGraphHandler {
	return &OpenGraphHandler{service: svc}
}

// Preview godoc
// @Summary Resolve the og:image preview for a work's website
// @Tags OpenGraph
// @Produce json
// @Param url query string true "Absolute http(s) URL"
// @Success 200 {object} response.Envelope
// @Success 204 "No og:image found"
// @Failure 400 {object} response.Envelope
// @Router /og-image [get]
func (h *OpenGraphHandler) Preview(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "url query parameter is required"))
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), target)
	if err != nil {
		response.Error(c, err)
		return
	}
	if preview.ImageURL == "" {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}
