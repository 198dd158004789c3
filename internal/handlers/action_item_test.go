package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/stretchr/testify/require"
)

func createActionItem(t *testing.T, env *testEnv, assigneeID, assignerID *uint64, description string) *models.ActionItem {
	t.Helper()

	item := &models.ActionItem{
		Description:         description,
		AssignedToMemberID:  assigneeID,
		AssignedByManagerID: assignerID,
		Status:              models.ActionItemStatusToDo,
		Priority:            models.ActionItemPriorityMedium,
	}
	require.NoError(t, env.db.Create(item).Error)
	return item
}

func TestActionItemHandler_CreateDefaults(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/action-items", map[string]any{
		"description": "Prepare slides",
	}, fx.mgrToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var response models.ActionItem
	decodeJSON(t, w, &response)
	// Assignee and assigner both default to the caller's member record.
	require.Equal(t, fx.managerTM.ID, *response.AssignedToMemberID)
	require.Equal(t, fx.managerTM.ID, *response.AssignedByManagerID)
	require.Equal(t, models.ActionItemStatusToDo, response.Status)
	require.Equal(t, models.ActionItemPriorityMedium, response.Priority)
	require.Nil(t, response.MeetingLogID)
}

func TestActionItemHandler_CreateForReport(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/action-items", map[string]any{
		"description":           "Review PR backlog",
		"assigned_to_member_id": fx.report.ID,
		"due_date":              "2024-05-01",
		"priority":              "High",
	}, fx.mgrToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var response models.ActionItem
	decodeJSON(t, w, &response)
	require.Equal(t, fx.report.ID, *response.AssignedToMemberID)
	require.Equal(t, models.ActionItemPriorityHigh, response.Priority)
	require.NotNil(t, response.DueDate)
}

func TestActionItemHandler_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	// Assigning outside the scope is forbidden, a missing assignee is a 400.
	w := env.request(t, http.MethodPost, "/action-items", map[string]any{
		"description":           "Nope",
		"assigned_to_member_id": fx.stranger.ID,
	}, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/action-items", map[string]any{
		"description":           "Nope",
		"assigned_to_member_id": 999,
	}, fx.mgrToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/action-items", map[string]any{
		"due_date": "2024-05-01",
	}, fx.mgrToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActionItemHandler_ListScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	createActionItem(t, env, &fx.managerTM.ID, &fx.managerTM.ID, "Own item")
	createActionItem(t, env, &fx.report.ID, &fx.managerTM.ID, "Report item")
	createActionItem(t, env, &fx.stranger.ID, &fx.stranger.ID, "Stranger item")

	var response struct {
		ActionItems []models.ActionItem `json:"action_items"`
	}

	w := env.request(t, http.MethodGet, "/action-items", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.ActionItems, 2)

	w = env.request(t, http.MethodGet, "/action-items", nil, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.ActionItems, 3)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/action-items?assigned_to=%d", fx.report.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.ActionItems, 1)
	require.Equal(t, "Report item", response.ActionItems[0].Description)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/action-items?assigned_to=%d", fx.stranger.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestActionItemHandler_ListStatusFilter(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	createActionItem(t, env, &fx.report.ID, &fx.managerTM.ID, "Open item")
	done := createActionItem(t, env, &fx.report.ID, &fx.managerTM.ID, "Done item")
	require.NoError(t, env.db.Model(done).Update("status", models.ActionItemStatusDone).Error)

	var response struct {
		ActionItems []models.ActionItem `json:"action_items"`
	}

	w := env.request(t, http.MethodGet, "/action-items?status=Done", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.ActionItems, 1)
	require.Equal(t, "Done item", response.ActionItems[0].Description)
}

func TestActionItemHandler_PartialUpdate(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	item := createActionItem(t, env, &fx.report.ID, &fx.managerTM.ID, "Original")

	w := env.request(t, http.MethodPut, fmt.Sprintf("/action-items/%d", item.ID), map[string]any{
		"status": "In Progress",
	}, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.ActionItem
	decodeJSON(t, w, &response)
	require.Equal(t, models.ActionItemStatusInProgress, response.Status)
	require.Equal(t, "Original", response.Description)
	require.Equal(t, fx.report.ID, *response.AssignedToMemberID)
}

func TestActionItemHandler_UpdateReassignment(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	item := createActionItem(t, env, &fx.report.ID, &fx.managerTM.ID, "Shifting")

	// Reassigning to an out-of-scope member is forbidden.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/action-items/%d", item.ID), map[string]any{
		"assigned_to_member_id": fx.stranger.ID,
	}, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Reassigning within scope works, as does clearing the assignee.
	w = env.request(t, http.MethodPut, fmt.Sprintf("/action-items/%d", item.ID), map[string]any{
		"assigned_to_member_id": fx.managerTM.ID,
	}, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.ActionItem
	decodeJSON(t, w, &response)
	require.Equal(t, fx.managerTM.ID, *response.AssignedToMemberID)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/action-items/%d", item.ID), map[string]any{
		"clear_assignee": true,
	}, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Nil(t, response.AssignedToMemberID)
}

func TestActionItemHandler_Delete(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	item := createActionItem(t, env, &fx.report.ID, &fx.managerTM.ID, "Doomed")

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/action-items/%d", item.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ActionItem{}).Where("id = ?", item.ID).Count(&count).Error)
	require.Zero(t, count)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/action-items/%d", item.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestActionItemHandler_GetScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	hidden := createActionItem(t, env, &fx.stranger.ID, &fx.stranger.ID, "Hidden")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/action-items/%d", hidden.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/action-items/%d", hidden.ID), nil, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
}
