package repository

import (
	"github.com/perfhub/performance-hub-api/internal/models"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with pagination
	List(offset, limit int) ([]models.User, int64, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user, unlinking its team member first
	Delete(id uint64) error
}

// TeamMemberFilter holds filtering options for listing team members
type TeamMemberFilter struct {
	SuperiorID      *uint64
	IncludeInactive bool
	Offset          int
	Limit           int
}

// TeamMemberRepository defines the interface for team member data access
type TeamMemberRepository interface {
	// Create creates a new team member
	Create(member *models.TeamMember) error

	// FindByID finds a team member by ID
	FindByID(id uint64) (*models.TeamMember, error)

	// FindByUserID finds the team member linked to a user account
	FindByUserID(userID uint64) (*models.TeamMember, error)

	// FindByEmail finds a team member by email
	FindByEmail(email string) (*models.TeamMember, error)

	// List retrieves team members matching the filter
	List(filter TeamMemberFilter) ([]models.TeamMember, int64, error)

	// FindAll retrieves every team member, active or not, ordered by id
	FindAll() ([]models.TeamMember, error)

	// Update persists changes to a team member
	Update(member *models.TeamMember) error

	// Delete removes a team member along with its owned records, re-pointing
	// direct reports to the deleted member's own superior
	Delete(id uint64) error
}

// ObjectiveFilter holds filtering options for listing objectives
type ObjectiveFilter struct {
	// TeamMemberIDs restricts results to objectives owned by these members.
	// Nil means no restriction; an empty slice matches nothing.
	TeamMemberIDs []uint64
	Status        *models.ObjectiveStatus
	Offset        int
	Limit         int
}

// ObjectiveRepository defines the interface for objective and key result data access
type ObjectiveRepository interface {
	// Create creates a new objective
	Create(objective *models.Objective) error

	// FindByID finds an objective by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Objective, error)

	// List retrieves objectives matching the filter
	List(filter ObjectiveFilter) ([]models.Objective, int64, error)

	// Update persists changes to an objective
	Update(objective *models.Objective) error

	// Delete removes an objective and all its key results
	Delete(id uint64) error

	// CreateKeyResult creates a key result under an objective
	CreateKeyResult(kr *models.KeyResult) error

	// FindKeyResultByID finds a key result by ID
	FindKeyResultByID(id uint64) (*models.KeyResult, error)

	// UpdateKeyResult persists changes to a key result
	UpdateKeyResult(kr *models.KeyResult) error

	// DeleteKeyResult removes a key result
	DeleteKeyResult(id uint64) error
}

// MeetingLogFilter holds filtering options for listing meeting logs
type MeetingLogFilter struct {
	// TeamMemberIDs restricts results to logs about these members.
	// Nil means no restriction; an empty slice matches nothing.
	TeamMemberIDs []uint64
	Offset        int
	Limit         int
}

// MeetingLogRepository defines the interface for meeting log data access
type MeetingLogRepository interface {
	// CreateWithActionItems creates a meeting log and its inline action items atomically
	CreateWithActionItems(log *models.MeetingLog, items []models.ActionItem) error

	// FindByID finds a meeting log by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.MeetingLog, error)

	// List retrieves meeting logs matching the filter
	List(filter MeetingLogFilter) ([]models.MeetingLog, int64, error)

	// Update persists changes to a meeting log
	Update(log *models.MeetingLog) error

	// Delete removes a meeting log and all its action items
	Delete(id uint64) error
}

// ActionItemFilter holds filtering options for listing action items
type ActionItemFilter struct {
	// AssignedToIDs restricts results to items assigned to these members.
	// Nil means no restriction; an empty slice matches nothing.
	AssignedToIDs []uint64
	Status        *models.ActionItemStatus
	Offset        int
	Limit         int
}

// ActionItemRepository defines the interface for action item data access
type ActionItemRepository interface {
	// Create creates a new action item
	Create(item *models.ActionItem) error

	// FindByID finds an action item by ID
	FindByID(id uint64) (*models.ActionItem, error)

	// List retrieves action items matching the filter
	List(filter ActionItemFilter) ([]models.ActionItem, int64, error)

	// Update persists changes to an action item
	Update(item *models.ActionItem) error

	// Delete removes an action item
	Delete(id uint64) error
}
