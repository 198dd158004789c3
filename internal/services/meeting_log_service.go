package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/perfhub/performance-hub-api/internal/hierarchy"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/permissions"
	"github.com/perfhub/performance-hub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMeetingLogNotFound = errors.New("meeting log not found")
	ErrManagerRequired    = errors.New("a manager team member is required for a meeting log")
	ErrManagerNotFound    = errors.New("manager team member not found")
)

// MeetingLogService handles 1:1 meeting records behind the access-control policy.
type MeetingLogService struct {
	meetingLogRepo repository.MeetingLogRepository
	memberRepo     repository.TeamMemberRepository
	resolver       *hierarchy.Resolver
}

// NewMeetingLogService creates a new MeetingLogService.
func NewMeetingLogService(meetingLogRepo repository.MeetingLogRepository, memberRepo repository.TeamMemberRepository, resolver *hierarchy.Resolver) *MeetingLogService {
	return &MeetingLogService{
		meetingLogRepo: meetingLogRepo,
		memberRepo:     memberRepo,
		resolver:       resolver,
	}
}

// InlineActionItemInput is an action item created together with a meeting log.
type InlineActionItemInput struct {
	Description        string
	AssignedToMemberID *uint64
	DueDate            *time.Time
	Priority           models.ActionItemPriority
}

// CreateMeetingLogInput represents input for creating a meeting log, with
// optional inline action items applied in the same transaction.
type CreateMeetingLogInput struct {
	TeamMemberID uint64
	ManagerID    *uint64
	MeetingDate  time.Time
	Notes        string
	ActionItems  []InlineActionItemInput
}

// UpdateMeetingLogInput represents a partial update to a meeting log.
type UpdateMeetingLogInput struct {
	MeetingDate     *time.Time
	Notes           *string
	NotesStructured *string
	AISummary       *string
}

// ListMeetingLogsInput represents filters for listing meeting logs.
type ListMeetingLogsInput struct {
	TeamMemberID *uint64
	Offset       int
	Limit        int
}

// Create creates a meeting log about a member within the principal's scope.
// The manager defaults to the principal's own team member; either everything
// (log plus inline action items) applies or nothing does.
func (s *MeetingLogService) Create(p permissions.Principal, input CreateMeetingLogInput) (*models.MeetingLog, error) {
	subject, err := s.memberRepo.FindByID(input.TeamMemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	if !permissions.Allows(p, permissions.ResourceMeetingLog, permissions.ActionCreate, subject) {
		return nil, ErrForbidden
	}

	managerID := input.ManagerID
	if managerID == nil {
		memberID, ok := p.MemberID()
		if !ok {
			return nil, ErrManagerRequired
		}
		managerID = &memberID
	}
	if _, err := s.memberRepo.FindByID(*managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}

	log := &models.MeetingLog{
		TeamMemberID: input.TeamMemberID,
		ManagerID:    *managerID,
		MeetingDate:  input.MeetingDate,
		Notes:        input.Notes,
	}

	items := make([]models.ActionItem, 0, len(input.ActionItems))
	for _, ai := range input.ActionItems {
		assignee := ai.AssignedToMemberID
		if assignee == nil {
			assignee = &input.TeamMemberID
		}
		priority := ai.Priority
		if priority == "" {
			priority = models.ActionItemPriorityMedium
		}
		items = append(items, models.ActionItem{
			Description:         ai.Description,
			AssignedToMemberID:  assignee,
			AssignedByManagerID: managerID,
			DueDate:             ai.DueDate,
			Status:              models.ActionItemStatusToDo,
			Priority:            priority,
		})
	}

	if err := s.meetingLogRepo.CreateWithActionItems(log, items); err != nil {
		return nil, fmt.Errorf("failed to create meeting log: %w", err)
	}

	return s.meetingLogRepo.FindByID(log.ID, "ActionItems")
}

// Get returns a meeting log with its action items.
func (s *MeetingLogService) Get(p permissions.Principal, id uint64) (*models.MeetingLog, error) {
	log, err := s.meetingLogRepo.FindByID(id, "ActionItems")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingLogNotFound
		}
		return nil, fmt.Errorf("failed to find meeting log: %w", err)
	}

	subject, err := s.memberRepo.FindByID(log.TeamMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	if !permissions.Allows(p, permissions.ResourceMeetingLog, permissions.ActionRead, subject) {
		return nil, ErrForbidden
	}

	return log, nil
}

// List returns meeting logs narrowed to the principal's scope.
func (s *MeetingLogService) List(p permissions.Principal, input ListMeetingLogsInput) ([]models.MeetingLog, int64, error) {
	scope, err := scopedMemberIDs(p, s.resolver)
	if err != nil {
		return nil, 0, err
	}

	memberIDs := scope
	if input.TeamMemberID != nil {
		if scope != nil && !containsID(scope, *input.TeamMemberID) {
			return nil, 0, ErrForbidden
		}
		memberIDs = []uint64{*input.TeamMemberID}
	}

	logs, total, err := s.meetingLogRepo.List(repository.MeetingLogFilter{
		TeamMemberIDs: memberIDs,
		Offset:        input.Offset,
		Limit:         input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meeting logs: %w", err)
	}

	return logs, total, nil
}

// Update applies a partial update to a meeting log within scope.
func (s *MeetingLogService) Update(p permissions.Principal, id uint64, input UpdateMeetingLogInput) (*models.MeetingLog, error) {
	log, err := s.meetingLogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingLogNotFound
		}
		return nil, fmt.Errorf("failed to find meeting log: %w", err)
	}

	subject, err := s.memberRepo.FindByID(log.TeamMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	if !permissions.Allows(p, permissions.ResourceMeetingLog, permissions.ActionUpdate, subject) {
		return nil, ErrForbidden
	}

	if input.MeetingDate != nil {
		log.MeetingDate = *input.MeetingDate
	}
	if input.Notes != nil {
		log.Notes = *input.Notes
	}
	if input.NotesStructured != nil {
		log.NotesStructured = *input.NotesStructured
	}
	if input.AISummary != nil {
		log.AISummary = *input.AISummary
	}

	if err := s.meetingLogRepo.Update(log); err != nil {
		return nil, fmt.Errorf("failed to update meeting log: %w", err)
	}

	return s.meetingLogRepo.FindByID(log.ID, "ActionItems")
}

// Delete removes a meeting log and cascades to its action items.
func (s *MeetingLogService) Delete(p permissions.Principal, id uint64) error {
	log, err := s.meetingLogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMeetingLogNotFound
		}
		return fmt.Errorf("failed to find meeting log: %w", err)
	}

	subject, err := s.memberRepo.FindByID(log.TeamMemberID)
	if err != nil {
		return fmt.Errorf("failed to find team member: %w", err)
	}
	if !permissions.Allows(p, permissions.ResourceMeetingLog, permissions.ActionDelete, subject) {
		return ErrForbidden
	}

	if err := s.meetingLogRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete meeting log: %w", err)
	}

	return nil
}
