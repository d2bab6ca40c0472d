package team

import "github.com/google/uuid"

// AddMemberRequest represents a request to add a team member.
type AddMemberRequest struct {
	DisplayName string     `json:"display_name" binding:"max=100"`
	Role        string     `json:"role" binding:"max=50"`
	UserID      *uuid.UUID `json:"user_id"`
	Email       *string    `json:"email" binding:"omitempty,email"`
}

// UpdateMemberRoleRequest represents a request to change a member's role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,max=50"`
}

// TeamResponse wraps a resolved member list.
type TeamResponse struct {
	Members []TeamMember `json:"members"`
	Count   int          `json:"count"`
}

// ManagerResponse carries the resolved manager display name.
type ManagerResponse struct {
	Manager string `json:"manager"`
}

// PermissionsResponse carries the caller's permissions on a project.
type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// AccessResponse carries the team access gate result.
type AccessResponse struct {
	Allowed bool `json:"allowed"`
}

// RoleInfo describes one canonical role for pickers.
type RoleInfo struct {
	Key         RoleKey `json:"key"`
	Description string  `json:"description"`
}

// RoleCatalog returns every canonical role with its description.
func RoleCatalog() []RoleInfo {
	roles := AllRoles()
	catalog := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		catalog = append(catalog, RoleInfo{Key: r, Description: r.Description()})
	}
	return catalog
}
