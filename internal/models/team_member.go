package models

import "time"

// TeamMember is a node in the organizational forest. SuperiorID points at the
// member's manager; nil marks a top-level root. Cycle prevention is enforced at
// write time (see hierarchy.WouldCreateCycle), never assumed.
type TeamMember struct {
	ID                uint64     `gorm:"primarykey" json:"id"`
	UserID            *uint64    `gorm:"uniqueIndex" json:"user_id"`
	FirstName         string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName          string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Position          string     `gorm:"type:varchar(200)" json:"position"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	StartDate         *time.Time `gorm:"type:date" json:"start_date"`
	ProfilePictureURL string     `gorm:"type:varchar(500)" json:"profile_picture_url"`
	PublicNotes       string     `gorm:"type:text" json:"public_notes"`
	ManagerNotes      string     `gorm:"type:text" json:"manager_notes"`
	SuperiorID        *uint64    `gorm:"index" json:"superior_id"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Relations
	User          *User        `gorm:"foreignKey:UserID" json:"-"`
	Superior      *TeamMember  `gorm:"foreignKey:SuperiorID" json:"-"`
	DirectReports []TeamMember `gorm:"foreignKey:SuperiorID" json:"-"`
	Objectives    []Objective  `gorm:"foreignKey:TeamMemberID" json:"objectives,omitempty"`
	MeetingLogs   []MeetingLog `gorm:"foreignKey:TeamMemberID" json:"meeting_logs,omitempty"`
}
