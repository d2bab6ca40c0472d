package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	recentLimit   = 50
	cacheTTL      = 30 * time.Second
	cacheKeyScope = "messages:recent:"
)

// AccessGate reports whether a user may use a project's message board.
type AccessGate interface {
	CanAccessTeam(ctx context.Context, projectID, userID uuid.UUID) bool
}

// Service provides message board operations. The recent page is cached in
// Redis briefly; the cache is dropped on every write to the board.
type Service struct {
	repo   Repository
	gate   AccessGate
	cache  redis.UniversalClient
	logger *zap.Logger
}

// NewService creates a new message service. cache may be nil, which disables
// caching.
func NewService(repo Repository, gate AccessGate, cache redis.UniversalClient, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		gate:   gate,
		cache:  cache,
		logger: logger,
	}
}

// Post adds a message to a project's board.
func (s *Service) Post(ctx context.Context, projectID, authorID uuid.UUID, body string) (*Message, error) {
	if !s.gate.CanAccessTeam(ctx, projectID, authorID) {
		return nil, ErrAccessDenied
	}

	msg := &Message{
		ID:        uuid.New(),
		ProjectID: projectID,
		AuthorID:  authorID,
		Body:      body,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.dropCache(ctx, projectID)
	return msg, nil
}

// ListRecent returns the newest messages of a project's board.
func (s *Service) ListRecent(ctx context.Context, projectID, userID uuid.UUID) ([]*Message, error) {
	if !s.gate.CanAccessTeam(ctx, projectID, userID) {
		return nil, ErrAccessDenied
	}

	if cached := s.fromCache(ctx, projectID); cached != nil {
		return cached, nil
	}

	messages, err := s.repo.ListRecent(ctx, projectID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	s.toCache(ctx, projectID, messages)
	return messages, nil
}

// Edit changes the body of a message. Only the author may edit.
func (s *Service) Edit(ctx context.Context, messageID, userID uuid.UUID, body string) (*Message, error) {
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	now := time.Now()
	msg.Body = body
	msg.EditedAt = &now
	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}

	s.dropCache(ctx, msg.ProjectID)
	return msg, nil
}

// Delete removes a message. Only the author may delete.
func (s *Service) Delete(ctx context.Context, messageID, userID uuid.UUID) error {
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.AuthorID != userID {
		return ErrNotAuthor
	}

	if err := s.repo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.dropCache(ctx, msg.ProjectID)
	return nil
}

// ========== Cache ==========

func cacheKey(projectID uuid.UUID) string {
	return cacheKeyScope + projectID.String()
}

func (s *Service) fromCache(ctx context.Context, projectID uuid.UUID) []*Message {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, cacheKey(projectID)).Bytes()
	if err != nil {
		return nil
	}

	var messages []*Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}

func (s *Service) toCache(ctx context.Context, projectID uuid.UUID, messages []*Message) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(messages)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(projectID), raw, cacheTTL).Err(); err != nil {
		s.logger.Debug("message cache write failed", zap.Error(err))
	}
}

func (s *Service) dropCache(ctx context.Context, projectID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(projectID)).Err(); err != nil {
		s.logger.Debug("message cache invalidation failed", zap.Error(err))
	}
}
