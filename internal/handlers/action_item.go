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

// ActionItemHandler coordinates action item HTTP handlers.
type ActionItemHandler struct {
	actionItemService *services.ActionItemService
}

// NewActionItemHandler creates a new ActionItemHandler.
func NewActionItemHandler(actionItemService *services.ActionItemService) *ActionItemHandler {
	return &ActionItemHandler{
		actionItemService: actionItemService,
	}
}

// Create creates an action item.
func (h *ActionItemHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type CreateActionItemRequest struct {
		Description        string                    `json:"description" binding:"required"`
		AssignedToMemberID *uint64                   `json:"assigned_to_member_id"`
		DueDate            *string                   `json:"due_date"`
		Status             models.ActionItemStatus   `json:"status"`
		Priority           models.ActionItemPriority `json:"priority"`
	}

	var req CreateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, ok := parseDate(c, req.DueDate, "due_date")
	if !ok {
		return
	}

	item, err := h.actionItemService.Create(p, services.CreateActionItemInput{
		Description:        req.Description,
		AssignedToMemberID: req.AssignedToMemberID,
		DueDate:            dueDate,
		Status:             req.Status,
		Priority:           req.Priority,
	})
	if err != nil {
		respondActionItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// List returns action items narrowed to the principal's scope.
func (h *ActionItemHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListActionItemsInput{
		Offset: params.Offset,
		Limit:  params.Limit,
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
		input.AssignedToMemberID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ActionItemStatus(raw)
		input.Status = &status
	}

	items, total, err := h.actionItemService.List(p, input)
	if err != nil {
		respondActionItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"action_items": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns an action item by id.
func (h *ActionItemHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.actionItemService.Get(p, id)
	if err != nil {
		respondActionItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Update applies a partial update to an action item.
func (h *ActionItemHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateActionItemRequest struct {
		Description        *string                    `json:"description"`
		AssignedToMemberID *uint64                    `json:"assigned_to_member_id"`
		ClearAssignee      bool                       `json:"clear_assignee"`
		DueDate            *string                    `json:"due_date"`
		ClearDueDate       bool                       `json:"clear_due_date"`
		Status             *models.ActionItemStatus   `json:"status"`
		Priority           *models.ActionItemPriority `json:"priority"`
	}

	var req UpdateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, ok := parseDate(c, req.DueDate, "due_date")
	if !ok {
		return
	}

	item, err := h.actionItemService.Update(p, id, services.UpdateActionItemInput{
		Description:        req.Description,
		AssignedToMemberID: req.AssignedToMemberID,
		ClearAssignee:      req.ClearAssignee,
		DueDate:            dueDate,
		ClearDueDate:       req.ClearDueDate,
		Status:             req.Status,
		Priority:           req.Priority,
	})
	if err != nil {
		respondActionItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes an action item.
func (h *ActionItemHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.actionItemService.Delete(p, id); err != nil {
		respondActionItemError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondActionItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrActionItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
