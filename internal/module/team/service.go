package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/server/internal/shared/metrics"
	"go.uber.org/zap"
)

// Service resolves project team state and performs team mutations.
//
// Read paths are fail-soft: they degrade to empty/false/default values
// instead of surfacing backend failures. Mutations return sentinel errors
// the caller can discriminate. The access gate fails closed.
type Service struct {
	gateway Gateway
	repo    Repository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a new team service.
func NewService(gateway Gateway, repo Repository, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// ========== Role / Permission Resolution ==========

// GetRole returns the canonical role of a user on a project.
// ErrRoleNotFound is a normal outcome (user holds no role); any other error
// is a transport failure.
func (s *Service) GetRole(ctx context.Context, userID, projectID uuid.UUID) (RoleKey, error) {
	raw, err := s.repo.RoleOf(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return "", ErrRoleNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	return NormalizeRole(raw), nil
}

// Permissions returns the permission names a user holds on a project.
// Resolution failure degrades to an empty set: permission absence is the
// safe failure mode.
func (s *Service) Permissions(ctx context.Context, userID, projectID uuid.UUID) []string {
	perms, err := s.gateway.UserPermissions(ctx, userID, projectID)
	if err != nil {
		s.logger.Warn("permission resolution failed, degrading to empty set",
			zap.String("user_id", userID.String()),
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return []string{}
	}
	if perms == nil {
		perms = []string{}
	}
	return perms
}

// HasPermission reports whether a user holds a permission on a project.
// Degrades to false on any failure, never errors.
func (s *Service) HasPermission(ctx context.Context, userID, projectID uuid.UUID, permission string) bool {
	allowed, err := s.gateway.HasPermission(ctx, userID, projectID, permission)
	if err != nil {
		if errors.Is(err, ErrPolicyRecursion) {
			s.logger.Warn("permission check hit policy recursion",
				zap.String("project_id", projectID.String()),
				zap.String("permission", permission),
			)
		} else {
			s.logger.Warn("permission check failed, degrading to false",
				zap.String("project_id", projectID.String()),
				zap.String("permission", permission),
				zap.Error(err),
			)
		}
		return false
	}
	return allowed
}

// AssignRole assigns a role to a user on a project. Returns false on any
// failure; the caller is responsible for surfacing a user-visible error.
func (s *Service) AssignRole(ctx context.Context, userID, projectID uuid.UUID, role RoleKey) bool {
	if !role.IsValid() {
		role = NormalizeRole(string(role))
	}

	if err := s.gateway.AssignRole(ctx, userID, projectID, role); err != nil {
		s.logger.Error("role assignment failed",
			zap.String("user_id", userID.String()),
			zap.String("project_id", projectID.String()),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("role assigned",
		zap.String("user_id", userID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("role", string(role)),
	)
	return true
}

// ========== Team Membership Resolution ==========

// memberStrategy is one alternative way of producing the member list.
type memberStrategy struct {
	name string
	run  func(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error)
}

// strategies returns the membership resolution chain in precedence order.
// Earlier strategies are cheaper; later ones are more likely to succeed
// under restrictive access policies. The order is load-bearing.
func (s *Service) strategies() []memberStrategy {
	return []memberStrategy{
		{name: "permissions_view", run: s.membersFromPermissionsView},
		{name: "secure_view", run: s.membersFromSecureView},
		{name: "project_aggregate", run: s.membersFromProjectAggregate},
		{name: "member_table", run: s.membersFromTable},
	}
}

// ListTeamMembers returns the current team of a project. Strategies are
// tried in order until one yields members; if every strategy fails or comes
// back empty the result is an empty list, never an error.
func (s *Service) ListTeamMembers(ctx context.Context, projectID uuid.UUID) []TeamMember {
	for _, strategy := range s.strategies() {
		records, err := strategy.run(ctx, projectID)
		if err != nil {
			s.logger.Debug("membership strategy failed",
				zap.String("strategy", strategy.name),
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
			continue
		}
		if len(records) == 0 {
			continue
		}

		if s.metrics != nil {
			s.metrics.TeamResolutionsTotal.WithLabelValues(strategy.name).Inc()
		}

		members := make([]TeamMember, 0, len(records))
		for _, rec := range records {
			members = append(members, resolveMember(rec))
		}
		return members
	}

	if s.metrics != nil {
		s.metrics.TeamResolutionsTotal.WithLabelValues("empty").Inc()
	}
	return []TeamMember{}
}

func (s *Service) membersFromPermissionsView(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error) {
	return s.gateway.TeamWithPermissions(ctx, projectID)
}

func (s *Service) membersFromSecureView(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error) {
	return s.gateway.TeamMembersSafe(ctx, projectID)
}

func (s *Service) membersFromProjectAggregate(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error) {
	project, err := s.gateway.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return project.Team, nil
}

// membersFromTable queries the raw membership table and fills in roles with
// a per-member role lookup.
func (s *Service) membersFromTable(ctx context.Context, projectID uuid.UUID) ([]MemberRecord, error) {
	members, err := s.repo.ListCurrentMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	records := make([]MemberRecord, 0, len(members))
	for _, m := range members {
		rec := MemberRecord{
			ID:   m.ID.String(),
			Name: m.DisplayName,
			Role: m.Role,
		}
		if m.UserID != nil {
			rec.UserID = m.UserID.String()
			if role, err := s.GetRole(ctx, *m.UserID, projectID); err == nil {
				rec.Role = string(role)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// DescribeRoles attaches lazy role descriptions to a resolved member list.
func (s *Service) DescribeRoles(members []TeamMember) []TeamMember {
	for i := range members {
		members[i].RoleDescription = members[i].Role.Description()
	}
	return members
}

// ========== Project Manager Resolution ==========

// ResolveManagerName determines the display name of a project's manager.
// It never fails and always returns a non-empty string; NotAssigned is the
// terminal fallback.
//
// Precedence: explicit manager id matched against current members (by
// membership id or by underlying user id; callers pass either), then a
// holder of the project_manager role, then the project owner's profile
// name.
func (s *Service) ResolveManagerName(ctx context.Context, projectID uuid.UUID, explicitManagerID string) string {
	if explicitManagerID != "" {
		for _, m := range s.ListTeamMembers(ctx, projectID) {
			// Callers inconsistently pass the membership id or the user
			// id; match against both.
			if m.ID == explicitManagerID || (m.UserID != "" && m.UserID == explicitManagerID) {
				return m.DisplayName
			}
		}
	}

	if holder, err := s.repo.CurrentRoleHolder(ctx, projectID, RoleProjectManager); err == nil && holder != nil {
		if holder.UserID != nil {
			if name, err := s.repo.ProfileName(ctx, *holder.UserID); err == nil && name != "" {
				return name
			}
		}
		if holder.DisplayName != "" {
			return holder.DisplayName
		}
	}

	if row, err := s.repo.ProjectRow(ctx, projectID); err == nil && row.OwnerID != nil {
		if name, err := s.repo.ProfileName(ctx, *row.OwnerID); err == nil && name != "" {
			return name
		}
	}

	return NotAssigned
}

// ========== Access Gate ==========

// CanAccessTeam reports whether a user may view or modify the project team.
// Delegates to the backend's dedicated non-recursive check and fails closed
// on any transport failure.
func (s *Service) CanAccessTeam(ctx context.Context, projectID, userID uuid.UUID) bool {
	allowed, err := s.gateway.CheckTeamAccess(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrPolicyRecursion) {
			s.logger.Warn("team access check hit policy recursion, denying",
				zap.String("project_id", projectID.String()),
				zap.String("user_id", userID.String()),
			)
		} else {
			s.logger.Warn("team access check failed, denying",
				zap.String("project_id", projectID.String()),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return false
	}
	return allowed
}

// ========== Mutations ==========

// AddMemberInput describes a member to add to a project team.
type AddMemberInput struct {
	UserID      *uuid.UUID
	DisplayName string
	Email       *string
	Role        string
}

// AddMember adds a member to the project team. Outcomes are discriminated:
// nil on success, ErrDuplicateMember when the user already has a current
// membership, anything else is a transport failure. The direct insert has
// one fallback write path through the backend RPC.
func (s *Service) AddMember(ctx context.Context, projectID uuid.UUID, input AddMemberInput) (*TeamMember, error) {
	role := NormalizeRole(input.Role)
	name := input.DisplayName
	if name == "" {
		name = DefaultDisplayName
	}

	// One current membership per user per project.
	if input.UserID != nil {
		existing, err := s.repo.CurrentMemberByUser(ctx, projectID, *input.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: duplicate check: %v", ErrGatewayFailure, err)
		}
		if existing != nil {
			return nil, ErrDuplicateMember
		}
	}

	member := &ProjectMember{
		ID:          uuid.New(),
		ProjectID:   projectID,
		UserID:      input.UserID,
		DisplayName: name,
		Email:       input.Email,
		Role:        string(role),
		JoinedAt:    time.Now(),
	}

	if err := s.repo.Insert(ctx, member); err != nil {
		s.logger.Warn("direct member insert failed, trying backend function",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)

		rec := MemberRecord{Name: name, Role: string(role)}
		if input.UserID != nil {
			rec.UserID = input.UserID.String()
		}
		if input.Email != nil {
			rec.Email = *input.Email
		}
		if rpcErr := s.gateway.AddMember(ctx, projectID, rec); rpcErr != nil {
			return nil, fmt.Errorf("%w: insert failed (%v); fallback failed: %v",
				ErrGatewayFailure, err, rpcErr)
		}
	}

	s.logger.Info("member added",
		zap.String("project_id", projectID.String()),
		zap.String("member_id", member.ID.String()),
		zap.String("role", string(role)),
	)

	view := resolveMember(MemberRecord{
		ID:     member.ID.String(),
		UserID: memberUserID(member),
		Name:   name,
		Role:   string(role),
	})
	return &view, nil
}

// RemoveMember removes a member from the team. Removal is a soft delete:
// the backend function is preferred, with a direct departure-timestamp
// update as fallback when the function is unavailable.
func (s *Service) RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	err := s.gateway.RemoveMember(ctx, projectID, memberID)
	if err == nil {
		s.logger.Info("member removed",
			zap.String("project_id", projectID.String()),
			zap.String("member_id", memberID.String()),
		)
		return nil
	}

	s.logger.Warn("backend removal failed, trying direct update",
		zap.String("member_id", memberID.String()),
		zap.Error(err),
	)

	if updateErr := s.repo.MarkDeparted(ctx, memberID); updateErr != nil {
		if errors.Is(updateErr, ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("%w: removal failed (%v); fallback failed: %v",
			ErrGatewayFailure, err, updateErr)
	}

	s.logger.Info("member removed via direct update",
		zap.String("project_id", projectID.String()),
		zap.String("member_id", memberID.String()),
	)
	return nil
}

// UpdateMemberRole changes a member's role by resolving the underlying user
// and delegating to AssignRole.
func (s *Service) UpdateMemberRole(ctx context.Context, memberID uuid.UUID, newRole RoleKey) error {
	if !newRole.IsValid() {
		return ErrInvalidRole
	}

	member, err := s.repo.MemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	if member.UserID == nil {
		return ErrMemberNotLinked
	}

	if !s.AssignRole(ctx, *member.UserID, member.ProjectID, newRole) {
		return fmt.Errorf("%w: assign role", ErrGatewayFailure)
	}
	return nil
}

func memberUserID(m *ProjectMember) string {
	if m.UserID == nil {
		return ""
	}
	return m.UserID.String()
}
