package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/stretchr/testify/require"
)

func createMeetingLog(t *testing.T, env *testEnv, memberID, managerID uint64) *models.MeetingLog {
	t.Helper()

	log := &models.MeetingLog{
		TeamMemberID: memberID,
		ManagerID:    managerID,
		MeetingDate:  time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
		Notes:        "weekly sync",
	}
	require.NoError(t, env.db.Create(log).Error)
	return log
}

func TestMeetingLogHandler_CreateWithInlineActionItems(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/meeting-logs", map[string]any{
		"team_member_id": fx.report.ID,
		"meeting_date":   "2024-04-01T10:00:00Z",
		"notes":          "Discussed onboarding",
		"action_items": []map[string]any{
			{"description": "Send docs", "due_date": "2024-04-08"},
			{"description": "Book review", "assigned_to_member_id": fx.managerTM.ID, "priority": "High"},
		},
	}, fx.mgrToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var response models.MeetingLog
	decodeJSON(t, w, &response)
	require.Equal(t, fx.report.ID, response.TeamMemberID)
	// The manager defaults to the caller's own member record.
	require.Equal(t, fx.managerTM.ID, response.ManagerID)
	require.Len(t, response.ActionItems, 2)

	for _, item := range response.ActionItems {
		require.Equal(t, models.ActionItemStatusToDo, item.Status)
		require.Equal(t, response.ID, *item.MeetingLogID)
		require.Equal(t, fx.managerTM.ID, *item.AssignedByManagerID)
	}

	// The unassigned item defaults to the meeting's subject.
	require.Equal(t, fx.report.ID, *response.ActionItems[0].AssignedToMemberID)
	require.Equal(t, models.ActionItemPriorityMedium, response.ActionItems[0].Priority)
	require.Equal(t, fx.managerTM.ID, *response.ActionItems[1].AssignedToMemberID)
	require.Equal(t, models.ActionItemPriorityHigh, response.ActionItems[1].Priority)
}

func TestMeetingLogHandler_CreateScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/meeting-logs", map[string]any{
		"team_member_id": fx.stranger.ID,
		"meeting_date":   "2024-04-01T10:00:00Z",
	}, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/meeting-logs", map[string]any{
		"team_member_id": 999,
		"meeting_date":   "2024-04-01T10:00:00Z",
	}, fx.mgrToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeetingLogHandler_CreateAdminNeedsExplicitManager(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	// The admin account has no member record, so the manager cannot default.
	w := env.request(t, http.MethodPost, "/meeting-logs", map[string]any{
		"team_member_id": fx.report.ID,
		"meeting_date":   "2024-04-01T10:00:00Z",
	}, fx.adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/meeting-logs", map[string]any{
		"team_member_id": fx.report.ID,
		"manager_id":     fx.managerTM.ID,
		"meeting_date":   "2024-04-01T10:00:00Z",
	}, fx.adminToken)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestMeetingLogHandler_ListScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	createMeetingLog(t, env, fx.report.ID, fx.managerTM.ID)
	createMeetingLog(t, env, fx.stranger.ID, fx.stranger.ID)

	var response struct {
		MeetingLogs []models.MeetingLog `json:"meeting_logs"`
	}

	w := env.request(t, http.MethodGet, "/meeting-logs", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.MeetingLogs, 1)
	require.Equal(t, fx.report.ID, response.MeetingLogs[0].TeamMemberID)

	w = env.request(t, http.MethodGet, "/meeting-logs", nil, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.MeetingLogs, 2)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/meeting-logs?team_member_id=%d", fx.stranger.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMeetingLogHandler_PartialUpdate(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	log := createMeetingLog(t, env, fx.report.ID, fx.managerTM.ID)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/meeting-logs/%d", log.ID), map[string]any{
		"notes_structured": `{"wins":["shipped"]}`,
	}, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.MeetingLog
	decodeJSON(t, w, &response)
	require.Equal(t, `{"wins":["shipped"]}`, response.NotesStructured)
	require.Equal(t, "weekly sync", response.Notes)
}

func TestMeetingLogHandler_DeleteCascadesActionItems(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	log := createMeetingLog(t, env, fx.report.ID, fx.managerTM.ID)
	item := &models.ActionItem{
		Description:  "Linked",
		MeetingLogID: &log.ID,
		Status:       models.ActionItemStatusToDo,
		Priority:     models.ActionItemPriorityMedium,
	}
	require.NoError(t, env.db.Create(item).Error)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/meeting-logs/%d", log.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ActionItem{}).Where("meeting_log_id = ?", log.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestMeetingLogHandler_GetNotFound(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodGet, "/meeting-logs/999", nil, fx.mgrToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}
