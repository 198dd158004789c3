package models

import "time"

type KeyResultStatus string

const (
	KeyResultStatusNotStarted KeyResultStatus = "Not Started"
	KeyResultStatusInProgress KeyResultStatus = "In Progress"
	KeyResultStatusDone       KeyResultStatus = "Done"
)

type KeyResult struct {
	ID               uint64          `gorm:"primarykey" json:"id"`
	ObjectiveID      uint64          `gorm:"not null;index" json:"objective_id"`
	Title            string          `gorm:"type:varchar(255);not null" json:"title"`
	Description      string          `gorm:"type:text" json:"description"`
	MeasurementType  string          `gorm:"type:varchar(50);not null" json:"measurement_type"`
	TargetValue      string          `gorm:"type:varchar(100)" json:"target_value"`
	CurrentValue     string          `gorm:"type:varchar(100)" json:"current_value"`
	StartDate        *time.Time      `gorm:"type:date" json:"start_date"`
	Deadline         *time.Time      `gorm:"type:date" json:"deadline"`
	Complexity       string          `gorm:"type:varchar(50)" json:"complexity"`
	Status           KeyResultStatus `gorm:"type:varchar(20);not null;default:'Not Started'" json:"status"`
	ResultEvaluation string          `gorm:"type:text" json:"result_evaluation"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
