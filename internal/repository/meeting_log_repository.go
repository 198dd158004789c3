package repository

import (
	"github.com/perfhub/performance-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormMeetingLogRepository is a GORM implementation of MeetingLogRepository
type GormMeetingLogRepository struct {
	db *gorm.DB
}

// NewMeetingLogRepository creates a new MeetingLogRepository
func NewMeetingLogRepository(db *gorm.DB) MeetingLogRepository {
	return &GormMeetingLogRepository{db: db}
}

// CreateWithActionItems creates a meeting log and its inline action items in
// one transaction; either everything applies or nothing does.
func (r *GormMeetingLogRepository) CreateWithActionItems(log *models.MeetingLog, items []models.ActionItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].MeetingLogID = &log.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a meeting log by ID with optional preloading
func (r *GormMeetingLogRepository) FindByID(id uint64, preload ...string) (*models.MeetingLog, error) {
	var log models.MeetingLog
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&log, id).Error; err != nil {
		return nil, err
	}

	return &log, nil
}

// List retrieves meeting logs matching the filter
func (r *GormMeetingLogRepository) List(filter MeetingLogFilter) ([]models.MeetingLog, int64, error) {
	var logs []models.MeetingLog

	if filter.TeamMemberIDs != nil && len(filter.TeamMemberIDs) == 0 {
		return []models.MeetingLog{}, 0, nil
	}

	query := r.db.Model(&models.MeetingLog{})

	if filter.TeamMemberIDs != nil {
		query = query.Where("meeting_logs.team_member_id IN ?", filter.TeamMemberIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("meeting_logs.meeting_date DESC")
	if filter.Limit > 0 {
		listQuery = listQuery.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := listQuery.Preload("ActionItems").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Update persists changes to a meeting log
func (r *GormMeetingLogRepository) Update(log *models.MeetingLog) error {
	return r.db.Save(log).Error
}

// Delete removes a meeting log and all its action items atomically
func (r *GormMeetingLogRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_log_id = ?", id).Delete(&models.ActionItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.MeetingLog{}, id).Error
	})
}
