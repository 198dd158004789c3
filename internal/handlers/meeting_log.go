package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/perfhub/performance-hub-api/internal/errors"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/services"
	"github.com/perfhub/performance-hub-api/internal/utils"
)

// MeetingLogHandler coordinates 1:1 meeting log HTTP handlers.
type MeetingLogHandler struct {
	meetingLogService *services.MeetingLogService
}

// NewMeetingLogHandler creates a new MeetingLogHandler.
func NewMeetingLogHandler(meetingLogService *services.MeetingLogService) *MeetingLogHandler {
	return &MeetingLogHandler{
		meetingLogService: meetingLogService,
	}
}

// Create creates a meeting log, optionally with inline action items.
func (h *MeetingLogHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type InlineActionItemRequest struct {
		Description        string                    `json:"description" binding:"required"`
		AssignedToMemberID *uint64                   `json:"assigned_to_member_id"`
		DueDate            *string                   `json:"due_date"`
		Priority           models.ActionItemPriority `json:"priority"`
	}

	type CreateMeetingLogRequest struct {
		TeamMemberID uint64                    `json:"team_member_id" binding:"required"`
		ManagerID    *uint64                   `json:"manager_id"`
		MeetingDate  time.Time                 `json:"meeting_date" binding:"required"`
		Notes        string                    `json:"notes"`
		ActionItems  []InlineActionItemRequest `json:"action_items"`
	}

	var req CreateMeetingLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]services.InlineActionItemInput, 0, len(req.ActionItems))
	for _, ai := range req.ActionItems {
		dueDate, ok := parseDate(c, ai.DueDate, "due_date")
		if !ok {
			return
		}
		items = append(items, services.InlineActionItemInput{
			Description:        ai.Description,
			AssignedToMemberID: ai.AssignedToMemberID,
			DueDate:            dueDate,
			Priority:           ai.Priority,
		})
	}

	log, err := h.meetingLogService.Create(p, services.CreateMeetingLogInput{
		TeamMemberID: req.TeamMemberID,
		ManagerID:    req.ManagerID,
		MeetingDate:  req.MeetingDate,
		Notes:        req.Notes,
		ActionItems:  items,
	})
	if err != nil {
		respondMeetingLogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// List returns meeting logs narrowed to the principal's scope.
func (h *MeetingLogHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListMeetingLogsInput{
		Offset: params.Offset,
		Limit:  params.Limit,
	}
	if raw := c.Query("team_member_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_member_id")
			return
		}
		input.TeamMemberID = &id
	}

	logs, total, err := h.meetingLogService.List(p, input)
	if err != nil {
		respondMeetingLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meeting_logs": logs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns a meeting log with its action items.
func (h *MeetingLogHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	log, err := h.meetingLogService.Get(p, id)
	if err != nil {
		respondMeetingLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

// Update applies a partial update to a meeting log.
func (h *MeetingLogHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateMeetingLogRequest struct {
		MeetingDate     *time.Time `json:"meeting_date"`
		Notes           *string    `json:"notes"`
		NotesStructured *string    `json:"notes_structured"`
		AISummary       *string    `json:"ai_summary"`
	}

	var req UpdateMeetingLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	log, err := h.meetingLogService.Update(p, id, services.UpdateMeetingLogInput{
		MeetingDate:     req.MeetingDate,
		Notes:           req.Notes,
		NotesStructured: req.NotesStructured,
		AISummary:       req.AISummary,
	})
	if err != nil {
		respondMeetingLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

// Delete removes a meeting log and its action items.
func (h *MeetingLogHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.meetingLogService.Delete(p, id); err != nil {
		respondMeetingLogError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondMeetingLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrMeetingLogNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrManagerRequired),
		errors.Is(err, services.ErrManagerNotFound):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
