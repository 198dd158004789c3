package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/perfhub/performance-hub-api/internal/dto"
	apierrors "github.com/perfhub/performance-hub-api/internal/errors"
	"github.com/perfhub/performance-hub-api/internal/services"
	"github.com/perfhub/performance-hub-api/internal/utils"
)

const dateLayout = "2006-01-02"

// TeamMemberHandler coordinates team member HTTP handlers.
type TeamMemberHandler struct {
	memberService *services.TeamMemberService
}

// NewTeamMemberHandler creates a new TeamMemberHandler.
func NewTeamMemberHandler(memberService *services.TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{
		memberService: memberService,
	}
}

// Create creates a team member; admin only.
func (h *TeamMemberHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type CreateTeamMemberRequest struct {
		FirstName         string  `json:"first_name" binding:"required"`
		LastName          string  `json:"last_name" binding:"required"`
		Position          string  `json:"position"`
		Email             string  `json:"email" binding:"required,email"`
		StartDate         *string `json:"start_date"`
		ProfilePictureURL string  `json:"profile_picture_url"`
		PublicNotes       string  `json:"public_notes"`
		ManagerNotes      string  `json:"manager_notes"`
		SuperiorID        *uint64 `json:"superior_id"`
		UserID            *uint64 `json:"user_id"`
		IsActive          *bool   `json:"is_active"`
	}

	var req CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, ok := parseDate(c, req.StartDate, "start_date")
	if !ok {
		return
	}

	member, err := h.memberService.Create(p, services.CreateTeamMemberInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Position:          req.Position,
		Email:             req.Email,
		StartDate:         startDate,
		ProfilePictureURL: req.ProfilePictureURL,
		PublicNotes:       req.PublicNotes,
		ManagerNotes:      req.ManagerNotes,
		SuperiorID:        req.SuperiorID,
		UserID:            req.UserID,
		IsActive:          req.IsActive,
	})
	if err != nil {
		respondTeamMemberError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*member))
}

// List returns team members in flat mode, scope-narrowed per role.
func (h *TeamMemberHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	var superiorID *uint64
	if raw := c.Query("superior_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid superior_id")
			return
		}
		superiorID = &id
	}

	members, total, err := h.memberService.List(p, services.ListTeamMembersInput{
		SuperiorID:      superiorID,
		IncludeInactive: c.Query("include_inactive") == "true",
		Offset:          params.Offset,
		Limit:           params.Limit,
	})
	if err != nil {
		respondTeamMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"team_members": dto.ToTeamMemberDTOs(members),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Hierarchy returns the subtree visible to the principal in tree mode.
func (h *TeamMemberHandler) Hierarchy(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var rootID *uint64
	if raw := c.Query("superior_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid superior_id")
			return
		}
		rootID = &id
	}

	nodes, err := h.memberService.Hierarchy(p, rootID, c.Query("include_inactive") == "true")
	if err != nil {
		respondTeamMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamMemberNodeDTOs(nodes))
}

// GetMe returns the principal's own team member profile.
func (h *TeamMemberHandler) GetMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetSelf(p)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			apierrors.NotFound(c, "Team member not found for current user")
			return
		}
		respondTeamMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// Get returns a team member by id.
func (h *TeamMemberHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	member, err := h.memberService.Get(p, id)
	if err != nil {
		respondTeamMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// Update applies a partial update to a team member.
func (h *TeamMemberHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTeamMemberRequest struct {
		FirstName         *string `json:"first_name"`
		LastName          *string `json:"last_name"`
		Position          *string `json:"position"`
		Email             *string `json:"email" binding:"omitempty,email"`
		StartDate         *string `json:"start_date"`
		ClearStartDate    bool    `json:"clear_start_date"`
		ProfilePictureURL *string `json:"profile_picture_url"`
		PublicNotes       *string `json:"public_notes"`
		ManagerNotes      *string `json:"manager_notes"`
		SuperiorID        *uint64 `json:"superior_id"`
		ClearSuperior     bool    `json:"clear_superior"`
		UserID            *uint64 `json:"user_id"`
		ClearUser         bool    `json:"clear_user"`
		IsActive          *bool   `json:"is_active"`
	}

	var req UpdateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, ok := parseDate(c, req.StartDate, "start_date")
	if !ok {
		return
	}

	member, err := h.memberService.Update(p, id, services.UpdateTeamMemberInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Position:          req.Position,
		Email:             req.Email,
		StartDate:         startDate,
		ClearStartDate:    req.ClearStartDate,
		ProfilePictureURL: req.ProfilePictureURL,
		PublicNotes:       req.PublicNotes,
		ManagerNotes:      req.ManagerNotes,
		SuperiorID:        req.SuperiorID,
		ClearSuperior:     req.ClearSuperior,
		UserID:            req.UserID,
		ClearUser:         req.ClearUser,
		IsActive:          req.IsActive,
	})
	if err != nil {
		respondTeamMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// Delete removes a team member; admin only.
func (h *TeamMemberHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.memberService.Delete(p, id); err != nil {
		respondTeamMemberError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseDate parses an optional YYYY-MM-DD request field, responding with a
// 400 on malformed input.
func parseDate(c *gin.Context, raw *string, field string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+field+", expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func respondTeamMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Team member not found")
	case errors.Is(err, services.ErrMemberEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrSuperiorNotFound),
		errors.Is(err, services.ErrLinkedUserNotFound),
		errors.Is(err, services.ErrHierarchyCycle):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserAlreadyLinked):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
