package repository

import (
	"github.com/perfhub/performance-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormActionItemRepository is a GORM implementation of ActionItemRepository
type GormActionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new ActionItemRepository
func NewActionItemRepository(db *gorm.DB) ActionItemRepository {
	return &GormActionItemRepository{db: db}
}

// Create creates a new action item
func (r *GormActionItemRepository) Create(item *models.ActionItem) error {
	return r.db.Create(item).Error
}

// FindByID finds an action item by ID
func (r *GormActionItemRepository) FindByID(id uint64) (*models.ActionItem, error) {
	var item models.ActionItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List retrieves action items matching the filter
func (r *GormActionItemRepository) List(filter ActionItemFilter) ([]models.ActionItem, int64, error) {
	var items []models.ActionItem

	if filter.AssignedToIDs != nil && len(filter.AssignedToIDs) == 0 {
		return []models.ActionItem{}, 0, nil
	}

	query := r.db.Model(&models.ActionItem{})

	if filter.AssignedToIDs != nil {
		query = query.Where("action_items.assigned_to_member_id IN ?", filter.AssignedToIDs)
	}
	if filter.Status != nil {
		query = query.Where("action_items.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("action_items.due_date IS NULL, action_items.due_date ASC, action_items.id ASC")
	if filter.Limit > 0 {
		listQuery = listQuery.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := listQuery.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Update persists changes to an action item
func (r *GormActionItemRepository) Update(item *models.ActionItem) error {
	return r.db.Save(item).Error
}

// Delete removes an action item
func (r *GormActionItemRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ActionItem{}, id).Error
}
