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
	ErrObjectiveNotFound = errors.New("objective not found")
	ErrKeyResultNotFound = errors.New("key result not found")
	ErrTitleRequired     = errors.New("title is required")
)

// ObjectiveService handles OKR business logic behind the access-control policy.
type ObjectiveService struct {
	objectiveRepo repository.ObjectiveRepository
	memberRepo    repository.TeamMemberRepository
	resolver      *hierarchy.Resolver
}

// NewObjectiveService creates a new ObjectiveService.
func NewObjectiveService(objectiveRepo repository.ObjectiveRepository, memberRepo repository.TeamMemberRepository, resolver *hierarchy.Resolver) *ObjectiveService {
	return &ObjectiveService{
		objectiveRepo: objectiveRepo,
		memberRepo:    memberRepo,
		resolver:      resolver,
	}
}

// CreateObjectiveInput represents input for creating an objective.
type CreateObjectiveInput struct {
	TeamMemberID uint64
	Title        string
	Description  string
	Status       models.ObjectiveStatus
	StartPeriod  string
	EndPeriod    string
}

// UpdateObjectiveInput represents a partial update to an objective.
type UpdateObjectiveInput struct {
	Title       *string
	Description *string
	Status      *models.ObjectiveStatus
	StartPeriod *string
	EndPeriod   *string
}

// ListObjectivesInput represents filters for listing objectives.
type ListObjectivesInput struct {
	TeamMemberID *uint64
	Status       *models.ObjectiveStatus
	Offset       int
	Limit        int
}

// CreateKeyResultInput represents input for creating a key result.
type CreateKeyResultInput struct {
	Title           string
	Description     string
	MeasurementType string
	TargetValue     string
	CurrentValue    string
	StartDate       *time.Time
	Deadline        *time.Time
	Complexity      string
	Status          models.KeyResultStatus
}

// UpdateKeyResultInput represents a partial update to a key result.
type UpdateKeyResultInput struct {
	Title            *string
	Description      *string
	MeasurementType  *string
	TargetValue      *string
	CurrentValue     *string
	StartDate        *time.Time
	Deadline         *time.Time
	ClearDeadline    bool
	Complexity       *string
	Status           *models.KeyResultStatus
	ResultEvaluation *string
}

// subjectMember loads the team member an objective belongs to for scoping.
func (s *ObjectiveService) subjectMember(teamMemberID uint64) (*models.TeamMember, error) {
	member, err := s.memberRepo.FindByID(teamMemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}

// Create creates an objective for a team member within the principal's scope.
func (s *ObjectiveService) Create(p permissions.Principal, input CreateObjectiveInput) (*models.Objective, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	member, err := s.subjectMember(input.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionCreate, member) {
		return nil, ErrForbidden
	}

	status := input.Status
	if status == "" {
		status = models.ObjectiveStatusActive
	}

	objective := &models.Objective{
		TeamMemberID: input.TeamMemberID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       status,
		StartPeriod:  input.StartPeriod,
		EndPeriod:    input.EndPeriod,
	}

	if err := s.objectiveRepo.Create(objective); err != nil {
		return nil, fmt.Errorf("failed to create objective: %w", err)
	}

	return objective, nil
}

// Get returns an objective with its key results.
func (s *ObjectiveService) Get(p permissions.Principal, id uint64) (*models.Objective, error) {
	objective, err := s.objectiveRepo.FindByID(id, "KeyResults")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("failed to find objective: %w", err)
	}

	member, err := s.subjectMember(objective.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionRead, member) {
		return nil, ErrForbidden
	}

	return objective, nil
}

// List returns objectives narrowed to the principal's scope.
func (s *ObjectiveService) List(p permissions.Principal, input ListObjectivesInput) ([]models.Objective, int64, error) {
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

	objectives, total, err := s.objectiveRepo.List(repository.ObjectiveFilter{
		TeamMemberIDs: memberIDs,
		Status:        input.Status,
		Offset:        input.Offset,
		Limit:         input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list objectives: %w", err)
	}

	return objectives, total, nil
}

// Update applies a partial update to an objective within scope.
func (s *ObjectiveService) Update(p permissions.Principal, id uint64, input UpdateObjectiveInput) (*models.Objective, error) {
	objective, err := s.objectiveRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("failed to find objective: %w", err)
	}

	member, err := s.subjectMember(objective.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionUpdate, member) {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		objective.Title = *input.Title
	}
	if input.Description != nil {
		objective.Description = *input.Description
	}
	if input.Status != nil {
		objective.Status = *input.Status
	}
	if input.StartPeriod != nil {
		objective.StartPeriod = *input.StartPeriod
	}
	if input.EndPeriod != nil {
		objective.EndPeriod = *input.EndPeriod
	}

	if err := s.objectiveRepo.Update(objective); err != nil {
		return nil, fmt.Errorf("failed to update objective: %w", err)
	}

	return s.objectiveRepo.FindByID(objective.ID, "KeyResults")
}

// Delete removes an objective and cascades to its key results.
func (s *ObjectiveService) Delete(p permissions.Principal, id uint64) error {
	objective, err := s.objectiveRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrObjectiveNotFound
		}
		return fmt.Errorf("failed to find objective: %w", err)
	}

	member, err := s.subjectMember(objective.TeamMemberID)
	if err != nil {
		return err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionDelete, member) {
		return ErrForbidden
	}

	if err := s.objectiveRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete objective: %w", err)
	}

	return nil
}

// AddKeyResult creates a key result under an objective within scope.
func (s *ObjectiveService) AddKeyResult(p permissions.Principal, objectiveID uint64, input CreateKeyResultInput) (*models.KeyResult, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	objective, err := s.objectiveRepo.FindByID(objectiveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("failed to find objective: %w", err)
	}

	member, err := s.subjectMember(objective.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionUpdate, member) {
		return nil, ErrForbidden
	}

	status := input.Status
	if status == "" {
		status = models.KeyResultStatusNotStarted
	}

	kr := &models.KeyResult{
		ObjectiveID:     objectiveID,
		Title:           input.Title,
		Description:     input.Description,
		MeasurementType: input.MeasurementType,
		TargetValue:     input.TargetValue,
		CurrentValue:    input.CurrentValue,
		StartDate:       input.StartDate,
		Deadline:        input.Deadline,
		Complexity:      input.Complexity,
		Status:          status,
	}

	if err := s.objectiveRepo.CreateKeyResult(kr); err != nil {
		return nil, fmt.Errorf("failed to create key result: %w", err)
	}

	return kr, nil
}

// UpdateKeyResult applies a partial update to a key result within scope.
func (s *ObjectiveService) UpdateKeyResult(p permissions.Principal, id uint64, input UpdateKeyResultInput) (*models.KeyResult, error) {
	kr, err := s.objectiveRepo.FindKeyResultByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyResultNotFound
		}
		return nil, fmt.Errorf("failed to find key result: %w", err)
	}

	objective, err := s.objectiveRepo.FindByID(kr.ObjectiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to find objective: %w", err)
	}
	member, err := s.subjectMember(objective.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionUpdate, member) {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		kr.Title = *input.Title
	}
	if input.Description != nil {
		kr.Description = *input.Description
	}
	if input.MeasurementType != nil {
		kr.MeasurementType = *input.MeasurementType
	}
	if input.TargetValue != nil {
		kr.TargetValue = *input.TargetValue
	}
	if input.CurrentValue != nil {
		kr.CurrentValue = *input.CurrentValue
	}
	if input.StartDate != nil {
		kr.StartDate = input.StartDate
	}
	if input.Deadline != nil {
		kr.Deadline = input.Deadline
	} else if input.ClearDeadline {
		kr.Deadline = nil
	}
	if input.Complexity != nil {
		kr.Complexity = *input.Complexity
	}
	if input.Status != nil {
		kr.Status = *input.Status
	}
	if input.ResultEvaluation != nil {
		kr.ResultEvaluation = *input.ResultEvaluation
	}

	if err := s.objectiveRepo.UpdateKeyResult(kr); err != nil {
		return nil, fmt.Errorf("failed to update key result: %w", err)
	}

	return kr, nil
}

// DeleteKeyResult removes a key result within scope.
func (s *ObjectiveService) DeleteKeyResult(p permissions.Principal, id uint64) error {
	kr, err := s.objectiveRepo.FindKeyResultByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeyResultNotFound
		}
		return fmt.Errorf("failed to find key result: %w", err)
	}

	objective, err := s.objectiveRepo.FindByID(kr.ObjectiveID)
	if err != nil {
		return fmt.Errorf("failed to find objective: %w", err)
	}
	member, err := s.subjectMember(objective.TeamMemberID)
	if err != nil {
		return err
	}
	if !permissions.Allows(p, permissions.ResourceObjective, permissions.ActionUpdate, member) {
		return ErrForbidden
	}

	if err := s.objectiveRepo.DeleteKeyResult(id); err != nil {
		return fmt.Errorf("failed to delete key result: %w", err)
	}

	return nil
}
