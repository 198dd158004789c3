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
	ErrActionItemNotFound  = errors.New("action item not found")
	ErrDescriptionRequired = errors.New("description is required")
	ErrAssigneeNotFound    = errors.New("assignee team member not found")
)

// ActionItemService handles standalone action items behind the access-control policy.
type ActionItemService struct {
	actionItemRepo repository.ActionItemRepository
	memberRepo     repository.TeamMemberRepository
	resolver       *hierarchy.Resolver
}

// NewActionItemService creates a new ActionItemService.
func NewActionItemService(actionItemRepo repository.ActionItemRepository, memberRepo repository.TeamMemberRepository, resolver *hierarchy.Resolver) *ActionItemService {
	return &ActionItemService{
		actionItemRepo: actionItemRepo,
		memberRepo:     memberRepo,
		resolver:       resolver,
	}
}

// CreateActionItemInput represents input for creating an action item.
type CreateActionItemInput struct {
	Description        string
	AssignedToMemberID *uint64
	DueDate            *time.Time
	Status             models.ActionItemStatus
	Priority           models.ActionItemPriority
}

// UpdateActionItemInput represents a partial update to an action item.
type UpdateActionItemInput struct {
	Description        *string
	AssignedToMemberID *uint64
	ClearAssignee      bool
	DueDate            *time.Time
	ClearDueDate       bool
	Status             *models.ActionItemStatus
	Priority           *models.ActionItemPriority
}

// ListActionItemsInput represents filters for listing action items.
type ListActionItemsInput struct {
	AssignedToMemberID *uint64
	Status             *models.ActionItemStatus
	Offset             int
	Limit              int
}

// subject resolves the member an action item is scoped on: the assignee if
// set, otherwise the assigner.
func (s *ActionItemService) subject(item *models.ActionItem) (*models.TeamMember, error) {
	var id *uint64
	switch {
	case item.AssignedToMemberID != nil:
		id = item.AssignedToMemberID
	case item.AssignedByManagerID != nil:
		id = item.AssignedByManagerID
	default:
		return nil, nil
	}

	member, err := s.memberRepo.FindByID(*id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}

// Create creates an action item. A missing assignee defaults to the
// principal's own member; the assigner is always the principal's member.
func (s *ActionItemService) Create(p permissions.Principal, input CreateActionItemInput) (*models.ActionItem, error) {
	if input.Description == "" {
		return nil, ErrDescriptionRequired
	}

	assigneeID := input.AssignedToMemberID
	if assigneeID == nil {
		if memberID, ok := p.MemberID(); ok {
			assigneeID = &memberID
		}
	}

	var assignee *models.TeamMember
	if assigneeID != nil {
		var err error
		assignee, err = s.memberRepo.FindByID(*assigneeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
	}
	if !permissions.Allows(p, permissions.ResourceActionItem, permissions.ActionCreate, assignee) {
		return nil, ErrForbidden
	}

	status := input.Status
	if status == "" {
		status = models.ActionItemStatusToDo
	}
	priority := input.Priority
	if priority == "" {
		priority = models.ActionItemPriorityMedium
	}

	item := &models.ActionItem{
		Description:        input.Description,
		AssignedToMemberID: assigneeID,
		DueDate:            input.DueDate,
		Status:             status,
		Priority:           priority,
	}
	if memberID, ok := p.MemberID(); ok {
		item.AssignedByManagerID = &memberID
	}

	if err := s.actionItemRepo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create action item: %w", err)
	}

	return item, nil
}

// Get returns an action item within scope.
func (s *ActionItemService) Get(p permissions.Principal, id uint64) (*models.ActionItem, error) {
	item, err := s.actionItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActionItemNotFound
		}
		return nil, fmt.Errorf("failed to find action item: %w", err)
	}

	subject, err := s.subject(item)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceActionItem, permissions.ActionRead, subject) {
		return nil, ErrForbidden
	}

	return item, nil
}

// List returns action items narrowed to the principal's scope.
func (s *ActionItemService) List(p permissions.Principal, input ListActionItemsInput) ([]models.ActionItem, int64, error) {
	scope, err := scopedMemberIDs(p, s.resolver)
	if err != nil {
		return nil, 0, err
	}

	assigneeIDs := scope
	if input.AssignedToMemberID != nil {
		if scope != nil && !containsID(scope, *input.AssignedToMemberID) {
			return nil, 0, ErrForbidden
		}
		assigneeIDs = []uint64{*input.AssignedToMemberID}
	}

	items, total, err := s.actionItemRepo.List(repository.ActionItemFilter{
		AssignedToIDs: assigneeIDs,
		Status:        input.Status,
		Offset:        input.Offset,
		Limit:         input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list action items: %w", err)
	}

	return items, total, nil
}

// Update applies a partial update to an action item within scope.
func (s *ActionItemService) Update(p permissions.Principal, id uint64, input UpdateActionItemInput) (*models.ActionItem, error) {
	item, err := s.actionItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActionItemNotFound
		}
		return nil, fmt.Errorf("failed to find action item: %w", err)
	}

	subject, err := s.subject(item)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceActionItem, permissions.ActionUpdate, subject) {
		return nil, ErrForbidden
	}

	if input.Description != nil {
		if *input.Description == "" {
			return nil, ErrDescriptionRequired
		}
		item.Description = *input.Description
	}
	if input.AssignedToMemberID != nil {
		assignee, err := s.memberRepo.FindByID(*input.AssignedToMemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		if !permissions.Allows(p, permissions.ResourceActionItem, permissions.ActionUpdate, assignee) {
			return nil, ErrForbidden
		}
		item.AssignedToMemberID = input.AssignedToMemberID
	} else if input.ClearAssignee {
		item.AssignedToMemberID = nil
	}
	if input.DueDate != nil {
		item.DueDate = input.DueDate
	} else if input.ClearDueDate {
		item.DueDate = nil
	}
	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.Priority != nil {
		item.Priority = *input.Priority
	}

	if err := s.actionItemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update action item: %w", err)
	}

	return item, nil
}

// Delete removes an action item within scope.
func (s *ActionItemService) Delete(p permissions.Principal, id uint64) error {
	item, err := s.actionItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActionItemNotFound
		}
		return fmt.Errorf("failed to find action item: %w", err)
	}

	subject, err := s.subject(item)
	if err != nil {
		return err
	}
	if !permissions.Allows(p, permissions.ResourceActionItem, permissions.ActionDelete, subject) {
		return ErrForbidden
	}

	if err := s.actionItemRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}

	return nil
}
