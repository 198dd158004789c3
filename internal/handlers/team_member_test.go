package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/perfhub/performance-hub-api/internal/dto"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/stretchr/testify/require"
)

// teamFixture is a three-level org: admin account plus a manager whose member
// record supervises one direct report; a stranger sits in a separate tree.
type teamFixture struct {
	admin      *models.User
	manager    *models.User
	managerTM  *models.TeamMember
	report     *models.TeamMember
	stranger   *models.TeamMember
	adminToken string
	mgrToken   string
}

func setupTeamFixture(t *testing.T, env *testEnv) teamFixture {
	t.Helper()

	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	manager := env.createUser(t, "manager@example.com", models.RoleManager)
	managerTM := env.createMember(t, "Manager", "manager.tm@example.com", &manager.ID, nil)
	report := env.createMember(t, "Report", "report@example.com", nil, &managerTM.ID)
	stranger := env.createMember(t, "Stranger", "stranger@example.com", nil, nil)

	return teamFixture{
		admin:      admin,
		manager:    manager,
		managerTM:  managerTM,
		report:     report,
		stranger:   stranger,
		adminToken: env.token(t, admin.Email),
		mgrToken:   env.token(t, manager.Email),
	}
}

func TestTeamMemberHandler_CreateAdminOnly(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/team-members", map[string]any{
		"first_name":  "New",
		"last_name":   "Hire",
		"email":       "new.hire@example.com",
		"position":    "Engineer",
		"start_date":  "2024-03-01",
		"superior_id": fx.managerTM.ID,
	}, fx.adminToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TeamMemberDTO
	decodeJSON(t, w, &response)
	require.Equal(t, "new.hire@example.com", response.Email)
	require.Equal(t, fx.managerTM.ID, *response.SuperiorID)
	require.NotNil(t, response.StartDate)
	require.Equal(t, time.March, response.StartDate.Month())

	// Managers may not create members at all.
	w = env.request(t, http.MethodPost, "/team-members", map[string]any{
		"first_name": "Nope",
		"last_name":  "Nope",
		"email":      "nope@example.com",
	}, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamMemberHandler_CreateDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/team-members", map[string]any{
		"first_name": "Dup",
		"last_name":  "Dup",
		"email":      fx.report.Email,
	}, fx.adminToken)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeamMemberHandler_CreateMissingSuperior(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPost, "/team-members", map[string]any{
		"first_name":  "Orphan",
		"last_name":   "Orphan",
		"email":       "orphan@example.com",
		"superior_id": 999,
	}, fx.adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamMemberHandler_GetMe(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodGet, "/team-members/me", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TeamMemberDTO
	decodeJSON(t, w, &response)
	require.Equal(t, fx.managerTM.ID, response.ID)

	// The admin account has no linked member record.
	w = env.request(t, http.MethodGet, "/team-members/me", nil, fx.adminToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamMemberHandler_GetScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	// Own record and direct report are readable.
	w := env.request(t, http.MethodGet, fmt.Sprintf("/team-members/%d", fx.managerTM.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/team-members/%d", fx.report.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	// Outside the subtree reads as forbidden.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/team-members/%d", fx.stranger.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	// A missing id is a 404 even for out-of-scope callers.
	w = env.request(t, http.MethodGet, "/team-members/999", nil, fx.mgrToken)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Admin reads anyone.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/team-members/%d", fx.stranger.ID), nil, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTeamMemberHandler_ListScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	var response struct {
		TeamMembers []dto.TeamMemberDTO `json:"team_members"`
	}

	// Admin with no filter sees everyone.
	w := env.request(t, http.MethodGet, "/team-members", nil, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.TeamMembers, 3)

	// Managers are narrowed to their own direct reports regardless of filter.
	w = env.request(t, http.MethodGet, "/team-members", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.TeamMembers, 1)
	require.Equal(t, fx.report.ID, response.TeamMembers[0].ID)

	w = env.request(t, http.MethodGet, "/team-members?superior_id=999", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response.TeamMembers, 1)
	require.Equal(t, fx.report.ID, response.TeamMembers[0].ID)
}

func TestTeamMemberHandler_Hierarchy(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	var response []dto.TeamMemberNodeDTO

	// Admin sees the full forest: the manager's tree plus the stranger.
	w := env.request(t, http.MethodGet, "/team-members/hierarchy", nil, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response, 2)

	// A manager's view defaults to their own subtree.
	w = env.request(t, http.MethodGet, "/team-members/hierarchy", nil, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &response)
	require.Len(t, response, 1)
	require.Equal(t, fx.managerTM.ID, response[0].ID)
	require.Len(t, response[0].DirectReports, 1)
	require.Equal(t, fx.report.ID, response[0].DirectReports[0].ID)

	// Another root is out of scope.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/team-members/hierarchy?superior_id=%d", fx.stranger.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamMemberHandler_PartialUpdate(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/team-members/%d", fx.report.ID), map[string]any{
		"position": "Senior Engineer",
	}, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TeamMemberDTO
	decodeJSON(t, w, &response)
	require.Equal(t, "Senior Engineer", response.Position)
	// Absent fields are left untouched.
	require.Equal(t, fx.report.FirstName, response.FirstName)
	require.Equal(t, fx.report.Email, response.Email)
	require.Equal(t, fx.managerTM.ID, *response.SuperiorID)
}

func TestTeamMemberHandler_UpdateClearSuperior(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/team-members/%d", fx.report.ID), map[string]any{
		"clear_superior": true,
	}, fx.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TeamMemberDTO
	decodeJSON(t, w, &response)
	require.Nil(t, response.SuperiorID)
}

func TestTeamMemberHandler_UpdateRejectsCycle(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	// Manager under its own report closes a loop.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/team-members/%d", fx.managerTM.ID), map[string]any{
		"superior_id": fx.report.ID,
	}, fx.adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.TeamMember
	require.NoError(t, env.db.First(&stored, fx.managerTM.ID).Error)
	require.Nil(t, stored.SuperiorID)
}

func TestTeamMemberHandler_UpdateScoping(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	// A manager may update a direct report but not a stranger, and not
	// its own profile.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/team-members/%d", fx.report.ID), map[string]any{
		"public_notes": "good quarter",
	}, fx.mgrToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/team-members/%d", fx.stranger.ID), map[string]any{
		"public_notes": "nope",
	}, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/team-members/%d", fx.managerTM.ID), map[string]any{
		"public_notes": "self praise",
	}, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTeamMemberHandler_DeleteCascadesAndReparents(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	// Give the manager's member record a superior so re-parenting is visible.
	top := env.createMember(t, "Top", "top@example.com", nil, nil)
	require.NoError(t, env.db.Model(fx.managerTM).Update("superior_id", top.ID).Error)

	objective := &models.Objective{TeamMemberID: fx.managerTM.ID, Title: "Ship it", Status: models.ObjectiveStatusActive}
	require.NoError(t, env.db.Create(objective).Error)
	kr := &models.KeyResult{ObjectiveID: objective.ID, Title: "Latency", MeasurementType: "numeric", Status: models.KeyResultStatusNotStarted}
	require.NoError(t, env.db.Create(kr).Error)

	log := &models.MeetingLog{TeamMemberID: fx.managerTM.ID, ManagerID: top.ID, MeetingDate: time.Now()}
	require.NoError(t, env.db.Create(log).Error)
	item := &models.ActionItem{Description: "Follow up", MeetingLogID: &log.ID, AssignedToMemberID: &fx.managerTM.ID, Status: models.ActionItemStatusToDo, Priority: models.ActionItemPriorityMedium}
	require.NoError(t, env.db.Create(item).Error)
	loose := &models.ActionItem{Description: "Standalone", AssignedToMemberID: &fx.managerTM.ID, Status: models.ActionItemStatusToDo, Priority: models.ActionItemPriorityMedium}
	require.NoError(t, env.db.Create(loose).Error)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/team-members/%d", fx.managerTM.ID), nil, fx.adminToken)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Objective{}).Where("team_member_id = ?", fx.managerTM.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.KeyResult{}).Where("objective_id = ?", objective.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.MeetingLog{}).Where("id = ?", log.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.ActionItem{}).Where("id = ?", item.ID).Count(&count).Error)
	require.Zero(t, count)

	// The standalone action item survives with its assignee cleared.
	var storedItem models.ActionItem
	require.NoError(t, env.db.First(&storedItem, loose.ID).Error)
	require.Nil(t, storedItem.AssignedToMemberID)

	// The report is re-parented to the deleted member's own superior.
	var storedReport models.TeamMember
	require.NoError(t, env.db.First(&storedReport, fx.report.ID).Error)
	require.Equal(t, top.ID, *storedReport.SuperiorID)

	// The linked user account survives.
	var userCount int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", fx.manager.ID).Count(&userCount).Error)
	require.EqualValues(t, 1, userCount)
}

func TestTeamMemberHandler_DeleteAdminOnly(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupTeamFixture(t, env)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/team-members/%d", fx.report.ID), nil, fx.mgrToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, "/team-members/999", nil, fx.adminToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}
