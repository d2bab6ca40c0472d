package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/server/internal/module/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service provides account and profile operations.
type Service struct {
	repo   Repository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, tokens *auth.TokenManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account and issues an access token.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &Profile{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", profile.ID.String()),
	)

	return s.authResponse(profile)
}

// Login authenticates a user and issues an access token. Lookup and
// comparison failures collapse into ErrInvalidCredentials so the response
// never reveals whether the email exists.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	profile, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in",
		zap.String("user_id", profile.ID.String()),
	)

	return s.authResponse(profile)
}

// GetProfile returns a profile by ID.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies partial updates to a profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Title != nil {
		profile.Title = *req.Title
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return ErrPasswordTooShort
	}

	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	profile.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// DeleteAccount soft-deletes an account after verifying the password.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return ErrIncorrectPassword
	}

	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	s.logger.Info("account deleted",
		zap.String("user_id", userID.String()),
	)
	return nil
}

// SearchByEmail finds profiles for member pickers. Results are capped.
func (s *Service) SearchByEmail(ctx context.Context, query string) ([]*Profile, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 3 {
		return []*Profile{}, nil
	}
	return s.repo.SearchByEmail(ctx, query, 10)
}

// IsAdmin reports whether a user holds the workspace admin flag. Fails false.
func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return profile.IsAdmin
}

func (s *Service) authResponse(profile *Profile) (*AuthResponse, error) {
	token, err := s.tokens.Issue(profile.ID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	expiry := s.tokens.Expiry()
	return &AuthResponse{
		User: profile,
		Token: TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiry.Seconds()),
			ExpiresAt:   time.Now().Add(expiry),
		},
	}, nil
}
