package team

import "strings"

// RoleKey is the canonical, closed-set role identifier for a project membership.
type RoleKey string

const (
	RoleProjectManager    RoleKey = "project_manager"
	RoleProjectOwner      RoleKey = "project_owner"
	RoleAdmin             RoleKey = "admin"
	RoleDeveloper         RoleKey = "developer"
	RoleDesigner          RoleKey = "designer"
	RoleClientStakeholder RoleKey = "client_stakeholder"
	RoleObserverViewer    RoleKey = "observer_viewer"
	RoleQATester          RoleKey = "qa_tester"
	RoleScrumMaster       RoleKey = "scrum_master"
	RoleBusinessAnalyst   RoleKey = "business_analyst"
	RoleCoordinator       RoleKey = "coordinator"
	RoleTeamMember        RoleKey = "team_member"
)

// AllRoles returns every canonical role key.
func AllRoles() []RoleKey {
	return []RoleKey{
		RoleProjectManager,
		RoleProjectOwner,
		RoleAdmin,
		RoleDeveloper,
		RoleDesigner,
		RoleClientStakeholder,
		RoleObserverViewer,
		RoleQATester,
		RoleScrumMaster,
		RoleBusinessAnalyst,
		RoleCoordinator,
		RoleTeamMember,
	}
}

// IsValid checks if the role is a member of the canonical set.
func (r RoleKey) IsValid() bool {
	switch r {
	case RoleProjectManager, RoleProjectOwner, RoleAdmin, RoleDeveloper,
		RoleDesigner, RoleClientStakeholder, RoleObserverViewer, RoleQATester,
		RoleScrumMaster, RoleBusinessAnalyst, RoleCoordinator, RoleTeamMember:
		return true
	default:
		return false
	}
}

// roleSynonyms maps normalized legacy role strings to canonical keys.
// Keys here are already lower-cased with separators collapsed to underscores.
var roleSynonyms = map[string]RoleKey{
	"owner":        RoleProjectOwner,
	"projectowner": RoleProjectOwner,

	"manager":        RoleProjectManager,
	"pm":             RoleProjectManager,
	"projectmanager": RoleProjectManager,
	"lead":           RoleProjectManager,

	"administrator": RoleAdmin,

	"dev":         RoleDeveloper,
	"engineer":    RoleDeveloper,
	"programmer":  RoleDeveloper,
	"contributor": RoleDeveloper,

	"design":      RoleDesigner,
	"ui_designer": RoleDesigner,
	"ux_designer": RoleDesigner,

	"client":      RoleClientStakeholder,
	"stakeholder": RoleClientStakeholder,
	"customer":    RoleClientStakeholder,

	"viewer":   RoleObserverViewer,
	"observer": RoleObserverViewer,
	"readonly": RoleObserverViewer,
	"guest":    RoleObserverViewer,

	"qa":      RoleQATester,
	"tester":  RoleQATester,
	"quality": RoleQATester,

	"scrum":       RoleScrumMaster,
	"scrummaster": RoleScrumMaster,

	"ba":      RoleBusinessAnalyst,
	"analyst": RoleBusinessAnalyst,

	"coordination": RoleCoordinator,

	"member":     RoleTeamMember,
	"teammember": RoleTeamMember,
}

// NormalizeRole maps a free-text role string to a canonical RoleKey.
// It lower-cases the input, collapses dash and whitespace runs to a single
// underscore, then matches against the canonical set and a synonym table.
// Unrecognized input always maps to RoleTeamMember. Pure and total.
func NormalizeRole(raw string) RoleKey {
	normalized := normalizeRoleString(raw)
	if normalized == "" {
		return RoleTeamMember
	}

	if key := RoleKey(normalized); key.IsValid() {
		return key
	}
	if key, ok := roleSynonyms[normalized]; ok {
		return key
	}
	// Also try with underscores stripped, so "project_owner" variants like
	// "projectowner" and "project owner" all converge.
	if key, ok := roleSynonyms[strings.ReplaceAll(normalized, "_", "")]; ok {
		return key
	}

	return RoleTeamMember
}

// normalizeRoleString lower-cases and collapses separator runs to underscores.
func normalizeRoleString(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lowered))
	lastSep := false
	for _, r := range lowered {
		if r == '-' || r == '_' || r == ' ' || r == '\t' {
			if !lastSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastSep = true
			continue
		}
		b.WriteRune(r)
		lastSep = false
	}
	return strings.TrimSuffix(b.String(), "_")
}

// roleDescriptions holds the human-readable description per role.
var roleDescriptions = map[RoleKey]string{
	RoleProjectManager:    "Manages project planning, scheduling and delivery",
	RoleProjectOwner:      "Owns the project and its settings",
	RoleAdmin:             "Administers project membership and configuration",
	RoleDeveloper:         "Implements and maintains project deliverables",
	RoleDesigner:          "Designs user experience and visual assets",
	RoleClientStakeholder: "External client or stakeholder with limited access",
	RoleObserverViewer:    "Read-only observer of project activity",
	RoleQATester:          "Tests deliverables and reports defects",
	RoleScrumMaster:       "Facilitates agile ceremonies and removes blockers",
	RoleBusinessAnalyst:   "Gathers requirements and analyzes business needs",
	RoleCoordinator:       "Coordinates schedules and cross-team communication",
	RoleTeamMember:        "General project team member",
}

// Description returns the human-readable description of the role.
func (r RoleKey) Description() string {
	if desc, ok := roleDescriptions[r]; ok {
		return desc
	}
	return roleDescriptions[RoleTeamMember]
}
