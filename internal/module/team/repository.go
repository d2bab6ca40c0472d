package team

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the direct-table access layer used by the later membership
// strategies and the mutation fallbacks.
type Repository interface {
	ListCurrentMembers(ctx context.Context, projectID uuid.UUID) ([]*ProjectMember, error)
	MemberByID(ctx context.Context, memberID uuid.UUID) (*ProjectMember, error)
	CurrentMemberByUser(ctx context.Context, projectID, userID uuid.UUID) (*ProjectMember, error)
	CurrentRoleHolder(ctx context.Context, projectID uuid.UUID, role RoleKey) (*ProjectMember, error)
	Insert(ctx context.Context, member *ProjectMember) error
	MarkDeparted(ctx context.Context, memberID uuid.UUID) error
	RoleOf(ctx context.Context, projectID, userID uuid.UUID) (string, error)

	ProjectRow(ctx context.Context, projectID uuid.UUID) (*ProjectOwnership, error)
	ProfileName(ctx context.Context, userID uuid.UUID) (string, error)
}

// ProjectOwnership carries the ownership columns of a project row.
type ProjectOwnership struct {
	OwnerID   *uuid.UUID `gorm:"column:user_id"`
	ManagerID *uuid.UUID `gorm:"column:project_manager_id"`
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new team repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListCurrentMembers lists non-departed members of a project.
func (r *repository) ListCurrentMembers(ctx context.Context, projectID uuid.UUID) ([]*ProjectMember, error) {
	var members []*ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND left_at IS NULL", projectID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// MemberByID retrieves a membership record by its id.
func (r *repository) MemberByID(ctx context.Context, memberID uuid.UUID) (*ProjectMember, error) {
	var member ProjectMember
	err := r.db.WithContext(ctx).
		Where("id = ?", memberID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// CurrentMemberByUser retrieves the current membership of a user on a project.
// Returns (nil, nil) when the user has no current membership.
func (r *repository) CurrentMemberByUser(ctx context.Context, projectID, userID uuid.UUID) (*ProjectMember, error) {
	var member ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ? AND left_at IS NULL", projectID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// CurrentRoleHolder retrieves the earliest-joined current member holding the
// given role. Returns (nil, nil) when nobody holds it.
func (r *repository) CurrentRoleHolder(ctx context.Context, projectID uuid.UUID, role RoleKey) (*ProjectMember, error) {
	var member ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND role = ? AND left_at IS NULL", projectID, string(role)).
		Order("joined_at ASC").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// Insert creates a membership record.
func (r *repository) Insert(ctx context.Context, member *ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// MarkDeparted soft-deletes a membership by setting its departure timestamp.
func (r *repository) MarkDeparted(ctx context.Context, memberID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&ProjectMember{}).
		Where("id = ? AND left_at IS NULL", memberID).
		Update("left_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// RoleOf returns the raw role string of a user's current membership.
// Returns ErrRoleNotFound when the user has no current membership.
func (r *repository) RoleOf(ctx context.Context, projectID, userID uuid.UUID) (string, error) {
	var member ProjectMember
	err := r.db.WithContext(ctx).
		Select("role").
		Where("project_id = ? AND user_id = ? AND left_at IS NULL", projectID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRoleNotFound
		}
		return "", err
	}
	return member.Role, nil
}

// ProjectRow returns the ownership columns of a project.
func (r *repository) ProjectRow(ctx context.Context, projectID uuid.UUID) (*ProjectOwnership, error) {
	var row ProjectOwnership
	result := r.db.WithContext(ctx).
		Table("projects").
		Select("user_id, project_manager_id").
		Where("id = ?", projectID).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// ProfileName returns the display name from a user's profile.
func (r *repository) ProfileName(ctx context.Context, userID uuid.UUID) (string, error) {
	var name string
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("full_name").
		Where("id = ?", userID).
		Row().Scan(&name)
	if err != nil {
		return "", err
	}
	return name, nil
}
