package models

import "time"

type MeetingLog struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	TeamMemberID    uint64    `gorm:"not null;index" json:"team_member_id"`
	ManagerID       uint64    `gorm:"not null;index" json:"manager_id"`
	MeetingDate     time.Time `gorm:"not null" json:"meeting_date"`
	Notes           string    `gorm:"type:text" json:"notes"`
	NotesStructured string    `gorm:"type:text" json:"notes_structured"`
	AISummary       string    `gorm:"type:text" json:"ai_summary"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	TeamMember  *TeamMember  `gorm:"foreignKey:TeamMemberID" json:"team_member,omitempty"`
	Manager     *TeamMember  `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	ActionItems []ActionItem `gorm:"foreignKey:MeetingLogID" json:"action_items,omitempty"`
}
