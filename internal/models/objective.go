package models

import "time"

type ObjectiveStatus string

const (
	ObjectiveStatusActive    ObjectiveStatus = "Active"
	ObjectiveStatusCompleted ObjectiveStatus = "Completed"
	ObjectiveStatusArchived  ObjectiveStatus = "Archived"
)

type Objective struct {
	ID           uint64          `gorm:"primarykey" json:"id"`
	TeamMemberID uint64          `gorm:"not null;index" json:"team_member_id"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Status       ObjectiveStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	StartPeriod  string          `gorm:"type:varchar(50)" json:"start_period"`
	EndPeriod    string          `gorm:"type:varchar(50)" json:"end_period"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relations
	TeamMember *TeamMember `gorm:"foreignKey:TeamMemberID" json:"team_member,omitempty"`
	KeyResults []KeyResult `gorm:"foreignKey:ObjectiveID" json:"key_results,omitempty"`
}
