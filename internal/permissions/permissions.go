package permissions

import (
	"github.com/perfhub/performance-hub-api/internal/models"
)

// Action is a CRUD operation scoped to a resource kind.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource identifies an entity kind in the policy table.
type Resource string

const (
	ResourceUser       Resource = "user"
	ResourceTeamMember Resource = "team_member"
	ResourceObjective  Resource = "objective"
	ResourceMeetingLog Resource = "meeting_log"
	ResourceActionItem Resource = "action_item"
)

// Scope narrows which subject team members an allowed action may touch.
type Scope int

const (
	// ScopeNone denies the action outright.
	ScopeNone Scope = iota
	// ScopeSelf allows the action only on the principal's own record.
	ScopeSelf
	// ScopeReports allows the action only on direct reports of the principal's member.
	ScopeReports
	// ScopeSelfOrReports allows the action on self and on direct reports.
	ScopeSelfOrReports
	// ScopeAny allows the action on any record.
	ScopeAny
)

// Principal is the authenticated actor: a user plus its linked team member, if any.
type Principal struct {
	User   models.User
	Member *models.TeamMember
}

func (p Principal) IsAdmin() bool {
	return p.User.Role == models.RoleAdmin
}

// MemberID returns the id of the principal's linked team member.
func (p Principal) MemberID() (uint64, bool) {
	if p.Member == nil {
		return 0, false
	}
	return p.Member.ID, true
}

// policy is the single declarative role/resource/action table every record
// service consults. Roles or resource/action pairs absent from the table
// resolve to ScopeNone.
var policy = map[models.Role]map[Resource]map[Action]Scope{
	models.RoleAdmin: {
		ResourceUser:       {ActionCreate: ScopeAny, ActionRead: ScopeAny, ActionList: ScopeAny, ActionUpdate: ScopeAny, ActionDelete: ScopeAny},
		ResourceTeamMember: {ActionCreate: ScopeAny, ActionRead: ScopeAny, ActionList: ScopeAny, ActionUpdate: ScopeAny, ActionDelete: ScopeAny},
		ResourceObjective:  {ActionCreate: ScopeAny, ActionRead: ScopeAny, ActionList: ScopeAny, ActionUpdate: ScopeAny, ActionDelete: ScopeAny},
		ResourceMeetingLog: {ActionCreate: ScopeAny, ActionRead: ScopeAny, ActionList: ScopeAny, ActionUpdate: ScopeAny, ActionDelete: ScopeAny},
		ResourceActionItem: {ActionCreate: ScopeAny, ActionRead: ScopeAny, ActionList: ScopeAny, ActionUpdate: ScopeAny, ActionDelete: ScopeAny},
	},
	models.RoleManager: {
		ResourceUser:       {ActionRead: ScopeSelf, ActionUpdate: ScopeSelf},
		ResourceTeamMember: {ActionRead: ScopeSelfOrReports, ActionList: ScopeReports, ActionUpdate: ScopeReports},
		ResourceObjective:  {ActionCreate: ScopeSelfOrReports, ActionRead: ScopeSelfOrReports, ActionList: ScopeSelfOrReports, ActionUpdate: ScopeSelfOrReports, ActionDelete: ScopeSelfOrReports},
		ResourceMeetingLog: {ActionCreate: ScopeSelfOrReports, ActionRead: ScopeSelfOrReports, ActionList: ScopeSelfOrReports, ActionUpdate: ScopeSelfOrReports, ActionDelete: ScopeSelfOrReports},
		ResourceActionItem: {ActionCreate: ScopeSelfOrReports, ActionRead: ScopeSelfOrReports, ActionList: ScopeSelfOrReports, ActionUpdate: ScopeSelfOrReports, ActionDelete: ScopeSelfOrReports},
	},
}

// ScopeFor looks up the scope granted to a role for an action on a resource.
func ScopeFor(role models.Role, resource Resource, action Action) Scope {
	byResource, ok := policy[role]
	if !ok {
		return ScopeNone
	}
	byAction, ok := byResource[resource]
	if !ok {
		return ScopeNone
	}
	return byAction[action]
}

// isSelf reports whether the subject member is the principal's own record.
// Self-access is keyed on the user link, with the member id as fallback for
// members the principal owns through the hierarchy row itself.
func isSelf(p Principal, subject *models.TeamMember) bool {
	if subject == nil {
		return false
	}
	if subject.UserID != nil && *subject.UserID == p.User.ID {
		return true
	}
	return p.Member != nil && subject.ID == p.Member.ID
}

// isDirectReport reports whether the subject's superior is the principal's member.
func isDirectReport(p Principal, subject *models.TeamMember) bool {
	if subject == nil || p.Member == nil || subject.SuperiorID == nil {
		return false
	}
	return *subject.SuperiorID == p.Member.ID
}

// MemberInScope applies a scope decision to a concrete subject member.
func MemberInScope(p Principal, scope Scope, subject *models.TeamMember) bool {
	switch scope {
	case ScopeAny:
		return true
	case ScopeSelf:
		return isSelf(p, subject)
	case ScopeReports:
		return isDirectReport(p, subject)
	case ScopeSelfOrReports:
		return isSelf(p, subject) || isDirectReport(p, subject)
	default:
		return false
	}
}

// Allows is the central authorize decision: role/resource/action resolved
// through the policy table, then scope-checked against the subject member.
// A nil subject is only allowed under ScopeAny (create/list against no
// concrete target).
func Allows(p Principal, resource Resource, action Action, subject *models.TeamMember) bool {
	return MemberInScope(p, ScopeFor(p.User.Role, resource, action), subject)
}

// AllowsUser decides actions targeting a user account by id. Non-admins may
// only read and update themselves; create, list and id-targeted delete are
// admin operations.
func AllowsUser(p Principal, action Action, targetUserID uint64) bool {
	scope := ScopeFor(p.User.Role, ResourceUser, action)
	switch scope {
	case ScopeAny:
		// Deleting your own account must go through the dedicated
		// self-delete operation, never the id-targeted admin path.
		if action == ActionDelete && targetUserID == p.User.ID {
			return false
		}
		return true
	case ScopeSelf:
		return targetUserID == p.User.ID
	default:
		return false
	}
}
