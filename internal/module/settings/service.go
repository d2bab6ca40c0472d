package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrAdminOnly       = errors.New("workspace settings require admin")
)

// AdminChecker reports whether a user is a workspace admin.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

// Service manages workspace settings. Reads are open to any authenticated
// user; writes require the admin flag.
type Service struct {
	repo   Repository
	admins AdminChecker
	logger *zap.Logger
}

// NewService creates a new settings service.
func NewService(repo Repository, admins AdminChecker, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		admins: admins,
		logger: logger,
	}
}

// List returns all workspace settings.
func (s *Service) List(ctx context.Context) ([]*Setting, error) {
	return s.repo.List(ctx)
}

// Get returns one setting by key.
func (s *Service) Get(ctx context.Context, key string) (*Setting, error) {
	return s.repo.Get(ctx, key)
}

// Set upserts a setting. Admin only.
func (s *Service) Set(ctx context.Context, userID uuid.UUID, key, value string) (*Setting, error) {
	if !s.admins.IsAdmin(ctx, userID) {
		return nil, ErrAdminOnly
	}

	setting := &Setting{
		Key:       key,
		Value:     value,
		UpdatedBy: &userID,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("set %q: %w", key, err)
	}

	s.logger.Info("workspace setting changed",
		zap.String("key", key),
		zap.String("updated_by", userID.String()),
	)
	return setting, nil
}

// Delete removes a setting. Admin only.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	if !s.admins.IsAdmin(ctx, userID) {
		return ErrAdminOnly
	}
	return s.repo.Delete(ctx, key)
}
