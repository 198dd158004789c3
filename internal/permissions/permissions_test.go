package permissions

import (
	"testing"

	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint64) *uint64 {
	return &v
}

func adminPrincipal() Principal {
	return Principal{User: models.User{ID: 1, Role: models.RoleAdmin}}
}

func managerPrincipal() Principal {
	return Principal{
		User:   models.User{ID: 2, Role: models.RoleManager},
		Member: &models.TeamMember{ID: 10, UserID: uintPtr(2)},
	}
}

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		resource Resource
		action   Action
		want     Scope
	}{
		{"admin user delete", models.RoleAdmin, ResourceUser, ActionDelete, ScopeAny},
		{"admin member create", models.RoleAdmin, ResourceTeamMember, ActionCreate, ScopeAny},
		{"manager user read", models.RoleManager, ResourceUser, ActionRead, ScopeSelf},
		{"manager user create", models.RoleManager, ResourceUser, ActionCreate, ScopeNone},
		{"manager member read", models.RoleManager, ResourceTeamMember, ActionRead, ScopeSelfOrReports},
		{"manager member update", models.RoleManager, ResourceTeamMember, ActionUpdate, ScopeReports},
		{"manager member delete", models.RoleManager, ResourceTeamMember, ActionDelete, ScopeNone},
		{"manager objective update", models.RoleManager, ResourceObjective, ActionUpdate, ScopeSelfOrReports},
		{"unknown role", models.Role("viewer"), ResourceUser, ActionRead, ScopeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ScopeFor(tt.role, tt.resource, tt.action))
		})
	}
}

func TestAllows(t *testing.T) {
	manager := managerPrincipal()
	self := &models.TeamMember{ID: 10, UserID: uintPtr(2)}
	report := &models.TeamMember{ID: 11, SuperiorID: uintPtr(10)}
	stranger := &models.TeamMember{ID: 12, SuperiorID: uintPtr(99)}

	tests := []struct {
		name     string
		p        Principal
		resource Resource
		action   Action
		subject  *models.TeamMember
		want     bool
	}{
		{"admin anything", adminPrincipal(), ResourceTeamMember, ActionDelete, stranger, true},
		{"admin nil subject", adminPrincipal(), ResourceTeamMember, ActionCreate, nil, true},
		{"manager reads self", manager, ResourceTeamMember, ActionRead, self, true},
		{"manager reads report", manager, ResourceTeamMember, ActionRead, report, true},
		{"manager reads stranger", manager, ResourceTeamMember, ActionRead, stranger, false},
		{"manager updates report", manager, ResourceTeamMember, ActionUpdate, report, true},
		{"manager updates self profile", manager, ResourceTeamMember, ActionUpdate, self, false},
		{"manager deletes report", manager, ResourceTeamMember, ActionDelete, report, false},
		{"manager creates member", manager, ResourceTeamMember, ActionCreate, nil, false},
		{"manager objective on self", manager, ResourceObjective, ActionCreate, self, true},
		{"manager objective on stranger", manager, ResourceObjective, ActionCreate, stranger, false},
		{"manager meeting log on report", manager, ResourceMeetingLog, ActionDelete, report, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Allows(tt.p, tt.resource, tt.action, tt.subject))
		})
	}
}

// Any subject a role may update it may also read; write access never exceeds
// read access.
func TestWriteScopeImpliesReadScope(t *testing.T) {
	manager := managerPrincipal()
	subjects := []*models.TeamMember{
		{ID: 10, UserID: uintPtr(2)},
		{ID: 11, SuperiorID: uintPtr(10)},
		{ID: 12, SuperiorID: uintPtr(99)},
		{ID: 13},
	}
	resources := []Resource{ResourceTeamMember, ResourceObjective, ResourceMeetingLog, ResourceActionItem}

	for _, p := range []Principal{adminPrincipal(), manager} {
		for _, resource := range resources {
			for _, subject := range subjects {
				if Allows(p, resource, ActionUpdate, subject) {
					require.True(t, Allows(p, resource, ActionRead, subject),
						"update allowed but read denied for %s id=%d", resource, subject.ID)
				}
			}
		}
	}
}

func TestAllowsUser(t *testing.T) {
	admin := adminPrincipal()
	manager := managerPrincipal()

	require.True(t, AllowsUser(admin, ActionDelete, 42))
	require.False(t, AllowsUser(admin, ActionDelete, admin.User.ID), "admin must not delete itself via the id-targeted path")
	require.True(t, AllowsUser(admin, ActionCreate, 0))
	require.True(t, AllowsUser(manager, ActionRead, manager.User.ID))
	require.True(t, AllowsUser(manager, ActionUpdate, manager.User.ID))
	require.False(t, AllowsUser(manager, ActionRead, 42))
	require.False(t, AllowsUser(manager, ActionDelete, manager.User.ID))
	require.False(t, AllowsUser(manager, ActionCreate, 0))
}

func TestMemberInScopeWithoutLinkedMember(t *testing.T) {
	// A manager account with no team member record has no self or reports.
	p := Principal{User: models.User{ID: 3, Role: models.RoleManager}}
	subject := &models.TeamMember{ID: 20, SuperiorID: uintPtr(10)}

	require.False(t, MemberInScope(p, ScopeSelf, subject))
	require.False(t, MemberInScope(p, ScopeReports, subject))
	require.False(t, MemberInScope(p, ScopeSelfOrReports, subject))
	require.True(t, MemberInScope(p, ScopeAny, subject))
}
