// Package token issues and verifies the signed access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is wrapped by every verification failure.
var ErrInvalidToken = errors.New("invalid or expired token")

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFounder Role = "founder"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFounder
}

// AccessClaims is the access token payload. Exactly one of FounderID and
// AdminID is set and it equals UserID.
type AccessClaims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FounderID string `json:"founder_id,omitempty"`
	AdminID   string `json:"admin_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the decoded payload into Admin or Founder.
func (c *AccessClaims) Identity() Identity {
	if c.Role == RoleFounder {
		return Founder{ID: c.UserID, Email: c.Email}
	}
	return Admin{ID: c.UserID, Email: c.Email}
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

func (s *Service) GenerateAccessToken(userID, email string, isFounder bool) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id required")
	}
	now := s.now()
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	if isFounder {
		claims.Role = RoleFounder
		claims.FounderID = userID
	} else {
		claims.Role = RoleAdmin
		claims.AdminID = userID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *Service) GenerateRefreshToken(userID string, role Role) (string, error) {
	if userID == "" || !role.Valid() {
		return "", fmt.Errorf("user id and valid role required")
	}
	now := s.now()
	claims := RefreshClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

func (s *Service) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	if !claims.Role.Valid() || claims.UserID == "" {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

func (s *Service) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	if !claims.Role.Valid() || claims.UserID == "" {
		return nil, fmt.Errorf("%w: malformed refresh payload", ErrInvalidToken)
	}
	return claims, nil
}

func (s *Service) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>" value.
func ExtractBearer(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
