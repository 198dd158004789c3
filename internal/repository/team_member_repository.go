package repository

import (
	"errors"

	"github.com/perfhub/performance-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamMemberRepository is a GORM implementation of TeamMemberRepository
type GormTeamMemberRepository struct {
	db *gorm.DB
}

// NewTeamMemberRepository creates a new TeamMemberRepository
func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &GormTeamMemberRepository{db: db}
}

// Create creates a new team member
func (r *GormTeamMemberRepository) Create(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

// FindByID finds a team member by ID
func (r *GormTeamMemberRepository) FindByID(id uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByUserID finds the team member linked to a user account
func (r *GormTeamMemberRepository) FindByUserID(userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail finds a team member by email
func (r *GormTeamMemberRepository) FindByEmail(email string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List retrieves team members matching the filter
func (r *GormTeamMemberRepository) List(filter TeamMemberFilter) ([]models.TeamMember, int64, error) {
	var members []models.TeamMember

	query := r.db.Model(&models.TeamMember{})

	if filter.SuperiorID != nil {
		query = query.Where("team_members.superior_id = ?", *filter.SuperiorID)
	}
	if !filter.IncludeInactive {
		query = query.Where("team_members.is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("team_members.id ASC")
	if filter.Limit > 0 {
		listQuery = listQuery.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := listQuery.Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// FindAll retrieves every team member, active or not, ordered by id
func (r *GormTeamMemberRepository) FindAll() ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Order("team_members.id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Update persists changes to a team member
func (r *GormTeamMemberRepository) Update(member *models.TeamMember) error {
	return r.db.Save(member).Error
}

// Delete removes a team member along with its objectives (and their key
// results), meeting logs (and their action items) in a single transaction.
// Direct reports are re-pointed to the deleted member's own superior so the
// forest stays connected, and dangling action item references are cleared.
// The linked user account is left untouched.
func (r *GormTeamMemberRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var member models.TeamMember
		if err := tx.First(&member, id).Error; err != nil {
			return err
		}

		var objectiveIDs []uint64
		if err := tx.Model(&models.Objective{}).
			Where("team_member_id = ?", id).
			Pluck("id", &objectiveIDs).Error; err != nil {
			return err
		}
		if len(objectiveIDs) > 0 {
			if err := tx.Where("objective_id IN ?", objectiveIDs).
				Delete(&models.KeyResult{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Objective{}, objectiveIDs).Error; err != nil {
				return err
			}
		}

		var meetingLogIDs []uint64
		if err := tx.Model(&models.MeetingLog{}).
			Where("team_member_id = ?", id).
			Pluck("id", &meetingLogIDs).Error; err != nil {
			return err
		}
		if len(meetingLogIDs) > 0 {
			if err := tx.Where("meeting_log_id IN ?", meetingLogIDs).
				Delete(&models.ActionItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.MeetingLog{}, meetingLogIDs).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.ActionItem{}).
			Where("assigned_to_member_id = ?", id).
			Update("assigned_to_member_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ActionItem{}).
			Where("assigned_by_manager_id = ?", id).
			Update("assigned_by_manager_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TeamMember{}).
			Where("superior_id = ?", id).
			Update("superior_id", member.SuperiorID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.TeamMember{}, id).Error
	})
}

// IsNotFound reports whether err is the record-not-found error of the
// underlying store.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
