package models

import "time"

type ActionItemStatus string

const (
	ActionItemStatusToDo       ActionItemStatus = "To Do"
	ActionItemStatusInProgress ActionItemStatus = "In Progress"
	ActionItemStatusDone       ActionItemStatus = "Done"
)

type ActionItemPriority string

const (
	ActionItemPriorityLow    ActionItemPriority = "Low"
	ActionItemPriorityMedium ActionItemPriority = "Medium"
	ActionItemPriorityHigh   ActionItemPriority = "High"
)

type ActionItem struct {
	ID                  uint64             `gorm:"primarykey" json:"id"`
	Description         string             `gorm:"type:text;not null" json:"description"`
	AssignedToMemberID  *uint64            `gorm:"index" json:"assigned_to_member_id"`
	AssignedByManagerID *uint64            `gorm:"index" json:"assigned_by_manager_id"`
	MeetingLogID        *uint64            `gorm:"index" json:"meeting_log_id"`
	DueDate             *time.Time         `gorm:"type:date" json:"due_date"`
	Status              ActionItemStatus   `gorm:"type:varchar(20);not null;default:'To Do'" json:"status"`
	Priority            ActionItemPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`

	// Relations
	AssignedTo *TeamMember `gorm:"foreignKey:AssignedToMemberID" json:"assigned_to,omitempty"`
	AssignedBy *TeamMember `gorm:"foreignKey:AssignedByManagerID" json:"assigned_by,omitempty"`
	MeetingLog *MeetingLog `gorm:"foreignKey:MeetingLogID" json:"-"`
}
