package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RoleKey
	}{
		{"canonical key", "project_manager", RoleProjectManager},
		{"uppercase", "PROJECT_MANAGER", RoleProjectManager},
		{"mixed case", "Project_Manager", RoleProjectManager},
		{"spaces", "project manager", RoleProjectManager},
		{"hyphens", "project-manager", RoleProjectManager},
		{"surrounding whitespace", "  developer  ", RoleDeveloper},
		{"synonym pm", "pm", RoleProjectManager},
		{"synonym manager", "manager", RoleProjectManager},
		{"synonym lead", "lead", RoleProjectManager},
		{"synonym dev", "dev", RoleDeveloper},
		{"synonym engineer", "engineer", RoleDeveloper},
		{"synonym qa", "qa", RoleQATester},
		{"synonym tester", "tester", RoleQATester},
		{"synonym scrum", "scrum", RoleScrumMaster},
		{"collapsed separators", "scrum--master", RoleScrumMaster},
		{"mixed separators", "business -- analyst", RoleBusinessAnalyst},
		{"unknown falls back", "wizard", RoleTeamMember},
		{"empty falls back", "", RoleTeamMember},
		{"whitespace only falls back", "   ", RoleTeamMember},
		{"garbage falls back", "!!##", RoleTeamMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRole(tt.input))
		})
	}
}

func TestNormalizeRoleIsTotal(t *testing.T) {
	// Every canonical key normalizes to itself, in any casing.
	for _, role := range AllRoles() {
		assert.Equal(t, role, NormalizeRole(string(role)))
		assert.True(t, NormalizeRole(string(role)).IsValid())
	}
}

func TestRoleKeyIsValid(t *testing.T) {
	assert.True(t, RoleProjectManager.IsValid())
	assert.True(t, RoleTeamMember.IsValid())
	assert.False(t, RoleKey("wizard").IsValid())
	assert.False(t, RoleKey("").IsValid())
}

func TestRoleDescriptions(t *testing.T) {
	for _, role := range AllRoles() {
		assert.NotEmpty(t, role.Description(), "role %q has no description", role)
	}
	// Unknown roles describe themselves as plain team members.
	assert.Equal(t, RoleTeamMember.Description(), RoleKey("wizard").Description())
}
