package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"incubator/pkg/apperr"
	"incubator/pkg/db"
	"incubator/pkg/token"
)

const defaultFounderName = "Test Founder"

const (
	msgFounderExists = "Founder with this email already exists."
	msgAdminExists   = "Admin with this email already exists."
)

type Service interface {
	RegisterFounder(ctx context.Context, email, password, userID, name string) (Founder, error)
	RegisterAdmin(ctx context.Context, email, password string) (Admin, error)
	LoginFounder(ctx context.Context, email, password string) (LoginResult, error)
	LoginAdmin(ctx context.Context, email, password string) (LoginResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, claims *token.AccessClaims) error
}

type service struct {
	repo     Repository
	tokens   *token.Service
	denylist token.Denylist
	now      func() time.Time
}

func NewService(repo Repository, tokens *token.Service, denylist token.Denylist) Service {
	if denylist == nil {
		denylist = token.NopDenylist{}
	}
	return &service{repo: repo, tokens: tokens, denylist: denylist, now: time.Now}
}

// HashPassword hashes with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) RegisterFounder(ctx context.Context, email, password, userID, name string) (Founder, error) {
	email = normalizeEmail(email)
	if _, err := uuid.Parse(userID); err != nil {
		return Founder{}, apperr.Validation("userId must be a valid startup id")
	}
	if strings.TrimSpace(name) == "" {
		name = defaultFounderName
	}

	_, err := s.repo.GetFounderByEmail(ctx, email)
	if err == nil {
		return Founder{}, apperr.DuplicateEmail(msgFounderExists)
	}
	if !errors.Is(err, ErrFounderNotFound) {
		return Founder{}, fmt.Errorf("lookup founder: %w", err)
	}

	exists, err := s.repo.StartupExists(ctx, userID)
	if err != nil {
		return Founder{}, fmt.Errorf("lookup startup: %w", err)
	}
	if !exists {
		return Founder{}, apperr.NotFound("Startup not found")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Founder{}, err
	}

	f, err := s.repo.CreateFounder(ctx, Founder{
		FounderID:    uuid.NewString(),
		UserID:       userID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Founder{}, apperr.DuplicateEmail(msgFounderExists)
		}
		return Founder{}, fmt.Errorf("create founder: %w", err)
	}
	return f, nil
}

func (s *service) RegisterAdmin(ctx context.Context, email, password string) (Admin, error) {
	email = normalizeEmail(email)

	_, err := s.repo.GetAdminByEmail(ctx, email)
	if err == nil {
		return Admin{}, apperr.DuplicateEmail(msgAdminExists)
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return Admin{}, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Admin{}, err
	}

	a, err := s.repo.CreateAdmin(ctx, uuid.NewString(), email, hash)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Admin{}, apperr.DuplicateEmail(msgAdminExists)
		}
		return Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}

func (s *service) LoginFounder(ctx context.Context, email, password string) (LoginResult, error) {
	f, err := s.repo.GetFounderByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrFounderNotFound) {
			return LoginResult{}, apperr.InvalidCredentials()
		}
		return LoginResult{}, fmt.Errorf("lookup founder: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(f.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, apperr.InvalidCredentials()
	}

	res, err := s.issue(f.FounderID, f.Email, token.RoleFounder)
	if err != nil {
		return LoginResult{}, err
	}
	res.FounderID = f.FounderID
	return res, nil
}

func (s *service) LoginAdmin(ctx context.Context, email, password string) (LoginResult, error) {
	a, err := s.repo.GetAdminByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return LoginResult{}, apperr.InvalidCredentials()
		}
		return LoginResult{}, fmt.Errorf("lookup admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, apperr.InvalidCredentials()
	}

	res, err := s.issue(a.AdminID, a.Email, token.RoleAdmin)
	if err != nil {
		return LoginResult{}, err
	}
	res.AdminID = a.AdminID
	return res, nil
}

func (s *service) issue(userID, email string, role token.Role) (LoginResult, error) {
	access, err := s.tokens.GenerateAccessToken(userID, email, role == token.RoleFounder)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return LoginResult{AccessToken: access, RefreshToken: refresh, Email: email}, nil
}

func (s *service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", apperr.Validation("Refresh token is required")
	}
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.Unauthenticated("Invalid refresh token")
	}

	var userID, email string
	switch claims.Role {
	case token.RoleFounder:
		f, err := s.repo.GetFounderByID(ctx, claims.UserID)
		if err != nil {
			return "", lookupError(err)
		}
		userID, email = f.FounderID, f.Email
	case token.RoleAdmin:
		a, err := s.repo.GetAdminByID(ctx, claims.UserID)
		if err != nil {
			return "", lookupError(err)
		}
		userID, email = a.AdminID, a.Email
	}

	access, err := s.tokens.GenerateAccessToken(userID, email, claims.Role == token.RoleFounder)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}

func lookupError(err error) error {
	if errors.Is(err, ErrFounderNotFound) || errors.Is(err, ErrAdminNotFound) {
		return apperr.NotFound("User not found")
	}
	return fmt.Errorf("lookup user: %w", err)
}

// Logout revokes the presented access token for the rest of its lifetime.
func (s *service) Logout(ctx context.Context, claims *token.AccessClaims) error {
	if claims == nil {
		return apperr.Unauthenticated("No token provided")
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
