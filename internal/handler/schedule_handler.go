package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/layout"
	"github.com/anitime-dev/anitime-api/internal/middleware"
	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// ScheduleHandler serves the positioned schedule grid and its exports.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	exports   *service.ExportService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exports: exports}
}

// Grid godoc
// @Summary Schedule grid for one broadcast day
// @Tags Schedule
// @Produce json
// @Param day query int true "Broadcast day (1=Monday .. 7=Sunday, 0=whole week)"
// @Param season query int false "Season id"
// @Param mode query string false "Grouping mode: area or channel" default(area)
// @Param hidden_areas query string false "Comma-separated area ids to hide"
// @Param hidden_channels query string false "Comma-separated channel ids to hide"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day query parameter is required"))
		return
	}

	var seasonID int64
	if raw := c.Query("season"); raw != "" {
		if seasonID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season must be an integer id"))
			return
		}
	}

	filter := service.ScheduleFilter{
		Day:              day,
		SeasonID:         seasonID,
		Mode:             layout.Mode(c.DefaultQuery("mode", string(layout.ModeArea))),
		HiddenAreaIDs:    idListQuery(c, "hidden_areas"),
		HiddenChannelIDs: idListQuery(c, "hidden_channels"),
	}

	grid, fromCache, err := h.schedules.Grid(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, fromCache)
	response.JSON(c, http.StatusOK, grid, nil, middleware.ExtractMeta(c))
}

// Week godoc
// @Summary One channel's schedule for the whole week
// @Tags Schedule
// @Produce json
// @Param id path int true "Channel id"
// @Param season query int false "Season id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /channels/{id}/schedule [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	channelID, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel id must be a positive integer"))
		return
	}

	var seasonID int64
	if raw := c.Query("season"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season must be an integer id"))
			return
		}
		seasonID = parsed
	}

	week, err := h.schedules.Week(c.Request.Context(), channelID, seasonID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Export godoc
// @Summary Download one day's schedule as CSV or PDF
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param day query int true "Broadcast day (1=Monday .. 7=Sunday)"
// @Param season query int false "Season id"
// @Param format query string false "Export format: csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day query parameter is required"))
		return
	}

	var seasonID int64
	if raw := c.Query("season"); raw != "" {
		if seasonID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season must be an integer id"))
			return
		}
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	result, err := h.exports.Export(c.Request.Context(), day, seasonID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
