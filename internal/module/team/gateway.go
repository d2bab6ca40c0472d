package team

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/taskboard/server/internal/shared/metrics"
	"gorm.io/gorm"
)

// Gateway is the boundary to the database-side access functions. All
// response-shape normalization happens here so resolvers only ever see
// canonical records.
type Gateway interface {
	ProjectByID(ctx context.Context, projectID uuid.UUID) (*ProjectRecord, error)
	TeamMembersSafe(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error)
	TeamWithPermissions(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error)
	HasPermission(ctx context.Context, userID, projectID uuid.UUID, permission string) (bool, error)
	UserPermissions(ctx context.Context, userID, projectID uuid.UUID) ([]string, error)
	AssignRole(ctx context.Context, userID, projectID uuid.UUID, role RoleKey) error
	AddMember(ctx context.Context, projectID uuid.UUID, rec MemberRecord) error
	RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error
	CheckTeamAccess(ctx context.Context, projectID uuid.UUID) (bool, error)
}

// GatewayConfig holds gateway resilience settings.
type GatewayConfig struct {
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
	CallTimeout             time.Duration
}

// DefaultGatewayConfig returns the default gateway configuration.
func DefaultGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      60 * time.Second,
		CallTimeout:             10 * time.Second,
	}
}

// gormGateway implements Gateway against Postgres functions through GORM.
type gormGateway struct {
	db          *gorm.DB
	breaker     *gobreaker.CircuitBreaker[any]
	metrics     *metrics.Metrics
	callTimeout time.Duration
}

// NewGateway creates a new database RPC gateway.
func NewGateway(db *gorm.DB, cfg *GatewayConfig, m *metrics.Metrics) Gateway {
	if cfg == nil {
		cfg = DefaultGatewayConfig()
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "team-rpc",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
	})

	return &gormGateway{
		db:          db,
		breaker:     breaker,
		metrics:     m,
		callTimeout: cfg.CallTimeout,
	}
}

// call runs op through the circuit breaker with a per-call timeout and
// records the outcome.
func (g *gormGateway) call(ctx context.Context, function string, op func(ctx context.Context) error) error {
	start := time.Now()
	_, err := g.breaker.Execute(func() (any, error) {
		callCtx := ctx
		if g.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.callTimeout)
			defer cancel()
		}
		return nil, op(callCtx)
	})

	if g.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		g.metrics.RecordGatewayCall(function, outcome, time.Since(start))
	}

	if err != nil {
		return translateBackendError(function, err)
	}
	return nil
}

// translateBackendError wraps backend failures, detecting the policy
// recursion signature so callers can distinguish it.
func translateBackendError(function string, err error) error {
	if IsPolicyRecursion(err) {
		return fmt.Errorf("%s: %w: %v", function, ErrPolicyRecursion, err)
	}
	return fmt.Errorf("%s: %w: %v", function, ErrGatewayFailure, err)
}

// IsPolicyRecursion reports whether err carries the backend's recursive
// policy evaluation signature.
func IsPolicyRecursion(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "infinite recursion")
}

type projectRow struct {
	ID               uuid.UUID  `gorm:"column:id"`
	Name             string     `gorm:"column:name"`
	UserID           *uuid.UUID `gorm:"column:user_id"`
	ProjectManagerID *uuid.UUID `gorm:"column:project_manager_id"`
	Team             []byte     `gorm:"column:team"`
}

type memberRow struct {
	ID          uuid.UUID  `gorm:"column:id"`
	Name        string     `gorm:"column:name"`
	Role        string     `gorm:"column:role"`
	UserID      *uuid.UUID `gorm:"column:user_id"`
	Permissions []byte     `gorm:"column:permissions"`
}

func (r memberRow) toRecord() (MemberRecord, error) {
	rec := MemberRecord{
		ID:   r.ID.String(),
		Name: r.Name,
		Role: r.Role,
	}
	if r.UserID != nil {
		rec.UserID = r.UserID.String()
	}
	if len(r.Permissions) > 0 {
		perms, err := normalizePermissionPayload(r.Permissions)
		if err != nil {
			return rec, err
		}
		rec.Permissions = perms
	}
	return rec, nil
}

// embeddedMember is the shape of entries in a project row's team jsonb.
type embeddedMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	UserID string `json:"user_id"`
}

// ProjectByID calls get_project_by_id and decodes the optional embedded team.
func (g *gormGateway) ProjectByID(ctx context.Context, projectID uuid.UUID) (*ProjectRecord, error) {
	var row projectRow
	err := g.call(ctx, "get_project_by_id", func(ctx context.Context) error {
		result := g.db.WithContext(ctx).
			Raw("SELECT * FROM get_project_by_id(?)", projectID).
			Scan(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec := &ProjectRecord{
		ID:   row.ID.String(),
		Name: row.Name,
	}
	if row.UserID != nil {
		rec.OwnerID = row.UserID.String()
	}
	if row.ProjectManagerID != nil {
		rec.ManagerID = row.ProjectManagerID.String()
	}

	if len(row.Team) > 0 {
		var embedded []embeddedMember
		if err := json.Unmarshal(row.Team, &embedded); err != nil {
			return nil, fmt.Errorf("get_project_by_id: decode team: %w", err)
		}
		for _, m := range embedded {
			rec.Team = append(rec.Team, MemberRecord{
				ID:     m.ID,
				UserID: m.UserID,
				Name:   m.Name,
				Role:   m.Role,
			})
		}
	}

	return rec, nil
}

// TeamMembersSafe calls the non-recursive member listing function.
func (g *gormGateway) TeamMembersSafe(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error) {
	return g.memberQuery(ctx, "get_project_team_members_safe",
		"SELECT * FROM get_project_team_members_safe(?)", projectID)
}

// TeamWithPermissions calls the aggregate view that pre-resolves permissions.
func (g *gormGateway) TeamWithPermissions(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error) {
	return g.memberQuery(ctx, "get_project_team_with_permissions",
		"SELECT * FROM get_project_team_with_permissions(?)", projectID)
}

func (g *gormGateway) memberQuery(ctx context.Context, function, query string, projectID uuid.UUID) ([]MemberRecord, error) {
	var rows []memberRow
	err := g.call(ctx, function, func(ctx context.Context) error {
		return g.db.WithContext(ctx).Raw(query, projectID).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	records := make([]MemberRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", function, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// HasPermission calls has_project_permission.
func (g *gormGateway) HasPermission(ctx context.Context, userID, projectID uuid.UUID, permission string) (bool, error) {
	var allowed bool
	err := g.call(ctx, "has_project_permission", func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Raw("SELECT has_project_permission(?, ?, ?)", userID, projectID, permission).
			Row().Scan(&allowed)
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// UserPermissions calls get_user_project_permissions and normalizes the
// payload, which historically comes back either as an array of strings or
// as an array of {permission_name} records.
func (g *gormGateway) UserPermissions(ctx context.Context, userID, projectID uuid.UUID) ([]string, error) {
	var payload []byte
	err := g.call(ctx, "get_user_project_permissions", func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Raw("SELECT get_user_project_permissions(?, ?)", userID, projectID).
			Row().Scan(&payload)
	})
	if err != nil {
		return nil, err
	}

	perms, err := normalizePermissionPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("get_user_project_permissions: %w", err)
	}
	return perms, nil
}

// AssignRole calls assign_project_role.
func (g *gormGateway) AssignRole(ctx context.Context, userID, projectID uuid.UUID, role RoleKey) error {
	return g.call(ctx, "assign_project_role", func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Exec("SELECT assign_project_role(?, ?, ?)", userID, projectID, string(role)).Error
	})
}

// AddMember calls add_project_member, the fallback write path for inserts.
func (g *gormGateway) AddMember(ctx context.Context, projectID uuid.UUID, rec MemberRecord) error {
	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}
	var email any
	if rec.Email != "" {
		email = rec.Email
	}
	return g.call(ctx, "add_project_member", func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Exec("SELECT add_project_member(?, ?, ?, ?, ?)",
				projectID, userID, rec.Name, rec.Role, email).Error
	})
}

// RemoveMember calls remove_project_member, the preferred soft-delete path.
func (g *gormGateway) RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	return g.call(ctx, "remove_project_member", func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Exec("SELECT remove_project_member(?, ?)", projectID, memberID).Error
	})
}

// CheckTeamAccess calls check_project_member_access_safe, the dedicated
// non-recursive access check.
func (g *gormGateway) CheckTeamAccess(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var allowed bool
	err := g.call(ctx, "check_project_member_access_safe", func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Raw("SELECT check_project_member_access_safe(?)", projectID).
			Row().Scan(&allowed)
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// normalizePermissionPayload converts either permission payload shape into a
// flat list of permission names.
func normalizePermissionPayload(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, nil
	}

	var records []struct {
		PermissionName string `json:"permission_name"`
	}
	if err := json.Unmarshal(raw, &records); err == nil {
		names = make([]string, 0, len(records))
		for _, r := range records {
			if r.PermissionName != "" {
				names = append(names, r.PermissionName)
			}
		}
		return names, nil
	}

	return nil, fmt.Errorf("unrecognized permission payload shape")
}
