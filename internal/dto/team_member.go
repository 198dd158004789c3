package dto

import (
	"time"

	"github.com/perfhub/performance-hub-api/internal/hierarchy"
	"github.com/perfhub/performance-hub-api/internal/models"
)

// TeamMemberDTO is the API representation of a team member.
type TeamMemberDTO struct {
	ID                uint64     `json:"id"`
	UserID            *uint64    `json:"user_id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Position          string     `json:"position"`
	Email             string     `json:"email"`
	StartDate         *time.Time `json:"start_date"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	PublicNotes       string     `json:"public_notes"`
	ManagerNotes      string     `json:"manager_notes"`
	SuperiorID        *uint64    `json:"superior_id"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToTeamMemberDTO converts a team member model to its API representation.
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		ID:                member.ID,
		UserID:            member.UserID,
		FirstName:         member.FirstName,
		LastName:          member.LastName,
		Position:          member.Position,
		Email:             member.Email,
		StartDate:         member.StartDate,
		ProfilePictureURL: member.ProfilePictureURL,
		PublicNotes:       member.PublicNotes,
		ManagerNotes:      member.ManagerNotes,
		SuperiorID:        member.SuperiorID,
		IsActive:          member.IsActive,
		CreatedAt:         member.CreatedAt,
		UpdatedAt:         member.UpdatedAt,
	}
}

// ToTeamMemberDTOs converts a slice of team member models.
func ToTeamMemberDTOs(members []models.TeamMember) []TeamMemberDTO {
	dtos := make([]TeamMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToTeamMemberDTO(m)
	}
	return dtos
}

// TeamMemberNodeDTO is a team member with its direct reports embedded
// recursively, for the hierarchy endpoint.
type TeamMemberNodeDTO struct {
	TeamMemberDTO
	DirectReports []TeamMemberNodeDTO `json:"direct_reports"`
}

// ToTeamMemberNodeDTO converts a hierarchy node, direct reports included.
func ToTeamMemberNodeDTO(node *hierarchy.Node) TeamMemberNodeDTO {
	reports := make([]TeamMemberNodeDTO, len(node.DirectReports))
	for i, child := range node.DirectReports {
		reports[i] = ToTeamMemberNodeDTO(child)
	}
	return TeamMemberNodeDTO{
		TeamMemberDTO: ToTeamMemberDTO(node.TeamMember),
		DirectReports: reports,
	}
}

// ToTeamMemberNodeDTOs converts a forest of hierarchy nodes.
func ToTeamMemberNodeDTOs(nodes []*hierarchy.Node) []TeamMemberNodeDTO {
	dtos := make([]TeamMemberNodeDTO, len(nodes))
	for i, n := range nodes {
		dtos[i] = ToTeamMemberNodeDTO(n)
	}
	return dtos
}
