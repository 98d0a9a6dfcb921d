// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"adminboard-service/internal/domain/user"
	xerrors "adminboard-service/internal/pkg/errors"
	"adminboard-service/internal/pkg/token"
	"adminboard-service/internal/pkg/validate"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service implements the register / login / refresh protocol over the
// user store. Handlers own the cookie side effects; the service deals
// only in tokens and users.
type Service struct {
	users           user.Repository
	codec           *token.Codec
	versions        *token.VersionStore
	enforceVersions bool
	logger          *zap.Logger
}

func NewService(users user.Repository, codec *token.Codec, versions *token.VersionStore, enforceVersions bool, logger *zap.Logger) *Service {
	return &Service{
		users:           users,
		codec:           codec,
		versions:        versions,
		enforceVersions: enforceVersions && versions != nil,
		logger:          logger,
	}
}

// TokenPair bundles the two credentials minted at register/login time.
type TokenPair struct {
	Access  string
	Refresh string
}

// Register validates input, creates the user and issues a token pair.
func (s *Service) Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, string, error) {
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, "", xerrors.Validation("email, password and role are required")
	}
	if !validate.Email(req.Email) {
		return nil, "", xerrors.Validation("invalid email format")
	}
	if err := validate.Password(req.Password); err != nil {
		return nil, "", err
	}
	if !req.Role.Valid() {
		return nil, "", xerrors.Validation("role must be one of ADMIN, MANAGER, VIEWER")
	}

	// Early duplicate check for a friendly fast path; the unique index
	// still decides races between concurrent registrations.
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, "", xerrors.ErrDuplicateEmail
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       user.StatusActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	return &user.AuthResponse{User: u.Sanitized(), AccessToken: pair.Access}, pair.Refresh, nil
}

// Login authenticates credentials and issues a token pair. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", xerrors.Validation("email and password are required")
	}
	if !validate.Email(req.Email) {
		return nil, "", xerrors.Validation("invalid email format")
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, "", xerrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if u.Status != user.StatusActive {
		return nil, "", xerrors.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", xerrors.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID))
	return &user.AuthResponse{User: u.Sanitized(), AccessToken: pair.Access}, pair.Refresh, nil
}

// Refresh verifies the refresh token and mints a new access token from
// current store data, so role or status changes since the refresh token
// was issued take effect immediately. The refresh token is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*user.AuthResponse, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUnauthorized, err)
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u.Status != user.StatusActive {
		return nil, xerrors.ErrUnauthorized
	}

	version, err := s.currentVersion(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if s.enforceVersions && claims.Version < version {
		return nil, xerrors.ErrUnauthorized
	}

	access, err := s.codec.IssueAccess(u, version)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &user.AuthResponse{User: u.Sanitized(), AccessToken: access}, nil
}

// VerifyAccess validates a bearer token for the request middleware.
func (s *Service) VerifyAccess(ctx context.Context, accessToken string) (*token.Claims, error) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUnauthorized, err)
	}

	if s.enforceVersions {
		version, err := s.currentVersion(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		if claims.Version < version {
			return nil, xerrors.ErrUnauthorized
		}
	}
	return claims, nil
}

// Me returns the caller's current user record.
func (s *Service) Me(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Sanitized(), nil
}

// ListUsers returns every account, sanitized.
func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*user.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// SetStatus activates or deactivates an account. Deactivation bumps the
// token version when enforcement is on, cutting off outstanding tokens.
func (s *Service) SetStatus(ctx context.Context, userID string, status user.Status) (*user.User, error) {
	if !status.Valid() {
		return nil, xerrors.Validation("status must be one of ACTIVE, INACTIVE")
	}

	u, err := s.users.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	if status == user.StatusInactive && s.enforceVersions {
		if _, err := s.versions.Bump(ctx, userID); err != nil {
			s.logger.Error("failed to bump token version", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("user status changed",
		zap.String("user_id", userID),
		zap.String("status", string(status)),
	)
	return u.Sanitized(), nil
}

// EnsureSeedAdmin creates the bootstrap ADMIN account if it is missing.
func (s *Service) EnsureSeedAdmin(ctx context.Context, email, password string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	u := &user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		Status:       user.StatusActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with another instance seeding the same admin.
		if errors.Is(err, xerrors.ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	s.logger.Info("seed admin created", zap.String("email", email))
	return nil
}

func (s *Service) issuePair(ctx context.Context, u *user.User) (*TokenPair, error) {
	version, err := s.currentVersion(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	access, err := s.codec.IssueAccess(u, version)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(u, version)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Service) currentVersion(ctx context.Context, userID string) (int64, error) {
	if !s.enforceVersions {
		return 0, nil
	}
	version, err := s.versions.Current(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read token version: %w", err)
	}
	return version, nil
}
