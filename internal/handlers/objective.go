package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/perfhub/performance-hub-api/internal/errors"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/services"
	"github.com/perfhub/performance-hub-api/internal/utils"
)

// ObjectiveHandler coordinates OKR HTTP handlers.
type ObjectiveHandler struct {
	objectiveService *services.ObjectiveService
}

// NewObjectiveHandler creates a new ObjectiveHandler.
func NewObjectiveHandler(objectiveService *services.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{
		objectiveService: objectiveService,
	}
}

// Create creates an objective for a team member in scope.
func (h *ObjectiveHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type CreateObjectiveRequest struct {
		TeamMemberID uint64                 `json:"team_member_id" binding:"required"`
		Title        string                 `json:"title" binding:"required"`
		Description  string                 `json:"description"`
		Status       models.ObjectiveStatus `json:"status"`
		StartPeriod  string                 `json:"start_period"`
		EndPeriod    string                 `json:"end_period"`
	}

	var req CreateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	objective, err := h.objectiveService.Create(p, services.CreateObjectiveInput{
		TeamMemberID: req.TeamMemberID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		StartPeriod:  req.StartPeriod,
		EndPeriod:    req.EndPeriod,
	})
	if err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objective)
}

// List returns objectives narrowed to the principal's scope.
func (h *ObjectiveHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListObjectivesInput{
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
	if raw := c.Query("status"); raw != "" {
		status := models.ObjectiveStatus(raw)
		input.Status = &status
	}

	objectives, total, err := h.objectiveService.List(p, input)
	if err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"objectives": objectives,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns an objective with its key results.
func (h *ObjectiveHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	objective, err := h.objectiveService.Get(p, id)
	if err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.JSON(http.StatusOK, objective)
}

// Update applies a partial update to an objective.
func (h *ObjectiveHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateObjectiveRequest struct {
		Title       *string                 `json:"title"`
		Description *string                 `json:"description"`
		Status      *models.ObjectiveStatus `json:"status"`
		StartPeriod *string                 `json:"start_period"`
		EndPeriod   *string                 `json:"end_period"`
	}

	var req UpdateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	objective, err := h.objectiveService.Update(p, id, services.UpdateObjectiveInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartPeriod: req.StartPeriod,
		EndPeriod:   req.EndPeriod,
	})
	if err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.JSON(http.StatusOK, objective)
}

// Delete removes an objective and its key results.
func (h *ObjectiveHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.objectiveService.Delete(p, id); err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddKeyResult creates a key result under an objective.
func (h *ObjectiveHandler) AddKeyResult(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	objectiveID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type CreateKeyResultRequest struct {
		Title           string                 `json:"title" binding:"required"`
		Description     string                 `json:"description"`
		MeasurementType string                 `json:"measurement_type" binding:"required"`
		TargetValue     string                 `json:"target_value"`
		CurrentValue    string                 `json:"current_value"`
		StartDate       *string                `json:"start_date"`
		Deadline        *string                `json:"deadline"`
		Complexity      string                 `json:"complexity"`
		Status          models.KeyResultStatus `json:"status"`
	}

	var req CreateKeyResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, ok := parseDate(c, req.StartDate, "start_date")
	if !ok {
		return
	}
	deadline, ok := parseDate(c, req.Deadline, "deadline")
	if !ok {
		return
	}

	kr, err := h.objectiveService.AddKeyResult(p, objectiveID, services.CreateKeyResultInput{
		Title:           req.Title,
		Description:     req.Description,
		MeasurementType: req.MeasurementType,
		TargetValue:     req.TargetValue,
		CurrentValue:    req.CurrentValue,
		StartDate:       startDate,
		Deadline:        deadline,
		Complexity:      req.Complexity,
		Status:          req.Status,
	})
	if err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, kr)
}

// UpdateKeyResult applies a partial update to a key result.
func (h *ObjectiveHandler) UpdateKeyResult(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateKeyResultRequest struct {
		Title            *string                 `json:"title"`
		Description      *string                 `json:"description"`
		MeasurementType  *string                 `json:"measurement_type"`
		TargetValue      *string                 `json:"target_value"`
		CurrentValue     *string                 `json:"current_value"`
		StartDate        *string                 `json:"start_date"`
		Deadline         *string                 `json:"deadline"`
		ClearDeadline    bool                    `json:"clear_deadline"`
		Complexity       *string                 `json:"complexity"`
		Status           *models.KeyResultStatus `json:"status"`
		ResultEvaluation *string                 `json:"result_evaluation"`
	}

	var req UpdateKeyResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, ok := parseDate(c, req.StartDate, "start_date")
	if !ok {
		return
	}
	deadline, ok := parseDate(c, req.Deadline, "deadline")
	if !ok {
		return
	}

	kr, err := h.objectiveService.UpdateKeyResult(p, id, services.UpdateKeyResultInput{
		Title:            req.Title,
		Description:      req.Description,
		MeasurementType:  req.MeasurementType,
		TargetValue:      req.TargetValue,
		CurrentValue:     req.CurrentValue,
		StartDate:        startDate,
		Deadline:         deadline,
		ClearDeadline:    req.ClearDeadline,
		Complexity:       req.Complexity,
		Status:           req.Status,
		ResultEvaluation: req.ResultEvaluation,
	})
	if err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.JSON(http.StatusOK, kr)
}

// DeleteKeyResult removes a key result.
func (h *ObjectiveHandler) DeleteKeyResult(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.objectiveService.DeleteKeyResult(p, id); err != nil {
		respondObjectiveError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondObjectiveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrObjectiveNotFound),
		errors.Is(err, services.ErrKeyResultNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
