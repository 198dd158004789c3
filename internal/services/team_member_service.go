package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/perfhub/performance-hub-api/internal/hierarchy"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/permissions"
	"github.com/perfhub/performance-hub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound     = errors.New("team member not found")
	ErrMemberEmailTaken   = errors.New("email already registered for another team member")
	ErrSuperiorNotFound   = errors.New("superior team member not found")
	ErrHierarchyCycle     = errors.New("assignment would make the member its own transitive superior")
	ErrLinkedUserNotFound = errors.New("linked user not found")
	ErrUserAlreadyLinked  = errors.New("user is already linked to another team member")
)

// TeamMemberService handles team member CRUD and hierarchy reads behind the
// access-control policy.
type TeamMemberService struct {
	memberRepo repository.TeamMemberRepository
	userRepo   repository.UserRepository
	resolver   *hierarchy.Resolver
}

// NewTeamMemberService creates a new TeamMemberService.
func NewTeamMemberService(memberRepo repository.TeamMemberRepository, userRepo repository.UserRepository, resolver *hierarchy.Resolver) *TeamMemberService {
	return &TeamMemberService{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		resolver:   resolver,
	}
}

// CreateTeamMemberInput represents input for creating a team member.
type CreateTeamMemberInput struct {
	FirstName         string
	LastName          string
	Position          string
	Email             string
	StartDate         *time.Time
	ProfilePictureURL string
	PublicNotes       string
	ManagerNotes      string
	SuperiorID        *uint64
	UserID            *uint64
	IsActive          *bool
}

// UpdateTeamMemberInput represents a partial update. Nil fields are left
// untouched; the Clear flags null out nullable fields explicitly.
type UpdateTeamMemberInput struct {
	FirstName         *string
	LastName          *string
	Position          *string
	Email             *string
	StartDate         *time.Time
	ClearStartDate    bool
	ProfilePictureURL *string
	PublicNotes       *string
	ManagerNotes      *string
	SuperiorID        *uint64
	ClearSuperior     bool
	UserID            *uint64
	ClearUser         bool
	IsActive          *bool
}

// ListTeamMembersInput represents filters for the flat listing.
type ListTeamMembersInput struct {
	SuperiorID      *uint64
	IncludeInactive bool
	Offset          int
	Limit           int
}

// Create creates a team member; admin only. Email uniqueness and referential
// prechecks run before anything is written.
func (s *TeamMemberService) Create(p permissions.Principal, input CreateTeamMemberInput) (*models.TeamMember, error) {
	if !permissions.Allows(p, permissions.ResourceTeamMember, permissions.ActionCreate, nil) {
		return nil, ErrForbidden
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := s.checkEmailAvailable(email, 0); err != nil {
		return nil, err
	}
	if input.SuperiorID != nil {
		if _, err := s.memberRepo.FindByID(*input.SuperiorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSuperiorNotFound
			}
			return nil, fmt.Errorf("failed to check superior: %w", err)
		}
	}
	if input.UserID != nil {
		if err := s.checkUserLinkable(*input.UserID, 0); err != nil {
			return nil, err
		}
	}

	member := &models.TeamMember{
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Position:          input.Position,
		Email:             email,
		StartDate:         input.StartDate,
		ProfilePictureURL: input.ProfilePictureURL,
		PublicNotes:       input.PublicNotes,
		ManagerNotes:      input.ManagerNotes,
		SuperiorID:        input.SuperiorID,
		UserID:            input.UserID,
		IsActive:          true,
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	if err := s.memberRepo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}

	return member, nil
}

// Get returns a team member. Existence is checked before scope so a missing
// id reads as 404 even for out-of-scope callers.
func (s *TeamMemberService) Get(p permissions.Principal, id uint64) (*models.TeamMember, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}

	if !permissions.Allows(p, permissions.ResourceTeamMember, permissions.ActionRead, member) {
		return nil, ErrForbidden
	}

	return member, nil
}

// GetSelf returns the principal's own team member profile.
func (s *TeamMemberService) GetSelf(p permissions.Principal) (*models.TeamMember, error) {
	member, err := s.memberRepo.FindByUserID(p.User.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}

// List returns team members in flat mode. Admins may filter by any superior;
// everyone else is narrowed to their own direct reports.
func (s *TeamMemberService) List(p permissions.Principal, input ListTeamMembersInput) ([]models.TeamMember, int64, error) {
	superiorID := input.SuperiorID

	if !p.IsAdmin() {
		memberID, ok := p.MemberID()
		if !ok {
			return nil, 0, ErrForbidden
		}
		superiorID = &memberID
	}

	members, total, err := s.memberRepo.List(repository.TeamMemberFilter{
		SuperiorID:      superiorID,
		IncludeInactive: input.IncludeInactive,
		Offset:          input.Offset,
		Limit:           input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list team members: %w", err)
	}

	return members, total, nil
}

// Hierarchy returns the subtree visible to the principal in tree mode.
func (s *TeamMemberService) Hierarchy(p permissions.Principal, requestedRootID *uint64, includeInactive bool) ([]*hierarchy.Node, error) {
	rootID, err := s.resolver.ResolveRoot(p, requestedRootID)
	if err != nil {
		if errors.Is(err, hierarchy.ErrForbiddenRoot) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to resolve hierarchy root: %w", err)
	}

	nodes, err := s.resolver.Tree(rootID, includeInactive)
	if err != nil {
		if errors.Is(err, hierarchy.ErrRootNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to build hierarchy: %w", err)
	}

	return nodes, nil
}

// Update applies a partial update to a team member. Admins may update anyone,
// managers only their direct reports. Superior reassignments are rejected
// when they would create a cycle.
func (s *TeamMemberService) Update(p permissions.Principal, id uint64, input UpdateTeamMemberInput) (*models.TeamMember, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}

	if !permissions.Allows(p, permissions.ResourceTeamMember, permissions.ActionUpdate, member) {
		return nil, ErrForbidden
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != member.Email {
			if err := s.checkEmailAvailable(email, member.ID); err != nil {
				return nil, err
			}
			member.Email = email
		}
	}
	if input.SuperiorID != nil {
		if _, err := s.memberRepo.FindByID(*input.SuperiorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSuperiorNotFound
			}
			return nil, fmt.Errorf("failed to check superior: %w", err)
		}
		cycle, err := s.resolver.WouldCreateCycle(member.ID, *input.SuperiorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check hierarchy: %w", err)
		}
		if cycle {
			return nil, ErrHierarchyCycle
		}
		member.SuperiorID = input.SuperiorID
	} else if input.ClearSuperior {
		member.SuperiorID = nil
	}
	if input.UserID != nil {
		if err := s.checkUserLinkable(*input.UserID, member.ID); err != nil {
			return nil, err
		}
		member.UserID = input.UserID
	} else if input.ClearUser {
		member.UserID = nil
	}

	if input.FirstName != nil {
		member.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		member.LastName = *input.LastName
	}
	if input.Position != nil {
		member.Position = *input.Position
	}
	if input.StartDate != nil {
		member.StartDate = input.StartDate
	} else if input.ClearStartDate {
		member.StartDate = nil
	}
	if input.ProfilePictureURL != nil {
		member.ProfilePictureURL = *input.ProfilePictureURL
	}
	if input.PublicNotes != nil {
		member.PublicNotes = *input.PublicNotes
	}
	if input.ManagerNotes != nil {
		member.ManagerNotes = *input.ManagerNotes
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	if err := s.memberRepo.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	return member, nil
}

// Delete removes a team member; admin only. Owned objectives and meeting
// logs go with it, direct reports are re-parented to the deleted member's
// own superior, and the linked user account is untouched.
func (s *TeamMemberService) Delete(p permissions.Principal, id uint64) error {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find team member: %w", err)
	}

	if !permissions.Allows(p, permissions.ResourceTeamMember, permissions.ActionDelete, member) {
		return ErrForbidden
	}

	if err := s.memberRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}

	return nil
}

func (s *TeamMemberService) checkEmailAvailable(email string, selfID uint64) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	existing, err := s.memberRepo.FindByEmail(email)
	if err == nil {
		if existing.ID != selfID {
			return ErrMemberEmailTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *TeamMemberService) checkUserLinkable(userID, selfID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkedUserNotFound
		}
		return fmt.Errorf("failed to check user: %w", err)
	}
	linked, err := s.memberRepo.FindByUserID(userID)
	if err == nil && linked.ID != selfID {
		return ErrUserAlreadyLinked
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check user link: %w", err)
	}
	return nil
}
