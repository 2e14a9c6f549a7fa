package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anitime-dev/anitime-api/internal/service"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/response"
)

// ProgramHandler manages program endpoints.
type ProgramHandler struct {
	programs  *service.ProgramService
	schedules *service.ScheduleService
}

// NewProgramHandler constructs handler.
func NewProgramHandler(programs *service.ProgramService, schedules *service.ScheduleService) *ProgramHandler {
	return &ProgramHandler{programs: programs, schedules: schedules}
}

// ListByIDs godoc
// @Summary Flattened program records for an explicit id set
// @Description Rehydrates a client-side watch list into positioned records
// @Tags Programs
// @Produce json
// @Param ids query string true "Comma-separated program ids"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) ListByIDs(c *gin.Context) {
	records, err := h.schedules.Records(c.Request.Context(), idListQuery(c, "ids"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Get godoc
// @Summary Load one program
// @Tags Programs
// @Produce json
// @Param id path int true "Program id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program id must be a positive integer"))
		return
	}

	program, err := h.programs.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Create godoc
// @Summary Create program
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body service.ProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req service.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid program payload"))
		return
	}

	program, err := h.programs.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// Update godoc
// @Summary Update program
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path int true "Program id"
// @Param payload body service.ProgramRequest true "Program payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program id must be a positive integer"))
		return
	}

	var req service.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid program payload"))
		return
	}

	program, err := h.programs.Update(c.Request.Context(), actorFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Delete godoc
// @Summary Delete program
// @Tags Programs
// @Param id path int true "Program id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program id must be a positive integer"))
		return
	}

	if err := h.programs.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reorder godoc
// @Summary Reorder a work's programs
// @Tags Programs
// @Accept json
// @Param id path int true "Work id"
// @Param payload body service.ReorderProgramsRequest true "Ordered program ids"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /works/{id}/programs/reorder [put]
func (h *ProgramHandler) Reorder(c *gin.Context) {
	workID, ok := pathID(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "work id must be a positive integer"))
		return
	}

	var req service.ReorderProgramsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reorder payload"))
		return
	}

	if err := h.programs.Reorder(c.Request.Context(), actorFromContext(c), workID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
