package repository

import (
	"github.com/perfhub/performance-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormObjectiveRepository is a GORM implementation of ObjectiveRepository
type GormObjectiveRepository struct {
	db *gorm.DB
}

// NewObjectiveRepository creates a new ObjectiveRepository
func NewObjectiveRepository(db *gorm.DB) ObjectiveRepository {
	return &GormObjectiveRepository{db: db}
}

// Create creates a new objective
func (r *GormObjectiveRepository) Create(objective *models.Objective) error {
	return r.db.Create(objective).Error
}

// FindByID finds an objective by ID with optional preloading
func (r *GormObjectiveRepository) FindByID(id uint64, preload ...string) (*models.Objective, error) {
	var objective models.Objective
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&objective, id).Error; err != nil {
		return nil, err
	}

	return &objective, nil
}

// List retrieves objectives matching the filter
func (r *GormObjectiveRepository) List(filter ObjectiveFilter) ([]models.Objective, int64, error) {
	var objectives []models.Objective

	if filter.TeamMemberIDs != nil && len(filter.TeamMemberIDs) == 0 {
		return []models.Objective{}, 0, nil
	}

	query := r.db.Model(&models.Objective{})

	if filter.TeamMemberIDs != nil {
		query = query.Where("objectives.team_member_id IN ?", filter.TeamMemberIDs)
	}
	if filter.Status != nil {
		query = query.Where("objectives.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("objectives.created_at DESC")
	if filter.Limit > 0 {
		listQuery = listQuery.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := listQuery.Preload("KeyResults").Find(&objectives).Error; err != nil {
		return nil, 0, err
	}

	return objectives, total, nil
}

// Update persists changes to an objective
func (r *GormObjectiveRepository) Update(objective *models.Objective) error {
	return r.db.Save(objective).Error
}

// Delete removes an objective and all its key results atomically
func (r *GormObjectiveRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("objective_id = ?", id).Delete(&models.KeyResult{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Objective{}, id).Error
	})
}

// CreateKeyResult creates a key result under an objective
func (r *GormObjectiveRepository) CreateKeyResult(kr *models.KeyResult) error {
	return r.db.Create(kr).Error
}

// FindKeyResultByID finds a key result by ID
func (r *GormObjectiveRepository) FindKeyResultByID(id uint64) (*models.KeyResult, error) {
	var kr models.KeyResult
	if err := r.db.First(&kr, id).Error; err != nil {
		return nil, err
	}
	return &kr, nil
}

// UpdateKeyResult persists changes to a key result
func (r *GormObjectiveRepository) UpdateKeyResult(kr *models.KeyResult) error {
	return r.db.Save(kr).Error
}

// DeleteKeyResult removes a key result
func (r *GormObjectiveRepository) DeleteKeyResult(id uint64) error {
	return r.db.Delete(&models.KeyResult{}, id).Error
}
