package team

import (
	"time"

	"github.com/google/uuid"
)

// NotAssigned is the terminal fallback returned when no manager can be resolved.
const NotAssigned = "Not Assigned"

// DefaultDisplayName is used when a member's stored name is blank.
const DefaultDisplayName = "Team Member"

// ProjectMember is a membership record. Removal is a soft delete: LeftAt is
// set instead of deleting the row, so historical membership stays queryable.
// A member is current iff LeftAt is unset.
type ProjectMember struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	UserID      *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"` // nil for external invitees
	DisplayName string     `json:"display_name"`
	Email       *string    `json:"email,omitempty"`
	Role        string     `json:"role" gorm:"not null;default:team_member"` // raw; normalized on read
	JoinedAt    time.Time  `json:"joined_at"`
	LeftAt      *time.Time `json:"left_at,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name.
func (ProjectMember) TableName() string {
	return "project_members"
}

// IsCurrent reports whether the membership is still active.
func (m *ProjectMember) IsCurrent() bool {
	return m.LeftAt == nil
}

// TeamMember is the resolved view of a membership handed to callers.
// DisplayName is never empty and Role is always a canonical key.
type TeamMember struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id,omitempty"`
	DisplayName     string   `json:"display_name"`
	Role            RoleKey  `json:"role"`
	RoleDescription string   `json:"role_description,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
}

// MemberRecord is the raw shape returned by the gateway before normalization.
type MemberRecord struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	Role        string
	Permissions []string
}

// ProjectRecord is the project aggregate shape returned by the gateway.
// Team is optional; when present it holds the embedded member list.
type ProjectRecord struct {
	ID        string
	Name      string
	OwnerID   string
	ManagerID string
	Team      []MemberRecord
}

// resolveMember converts a raw gateway record into the canonical view model,
// applying the display-name and role defaults.
func resolveMember(rec MemberRecord) TeamMember {
	name := rec.Name
	if name == "" {
		name = DefaultDisplayName
	}

	role := RoleTeamMember
	if rec.Role != "" {
		role = NormalizeRole(rec.Role)
	}

	return TeamMember{
		ID:          rec.ID,
		UserID:      rec.UserID,
		DisplayName: name,
		Role:        role,
		Permissions: rec.Permissions,
	}
}
