package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpToken     = errors.New("expired token")
)

// TokenService verifies the HS256 access tokens issued by the identity
// provider. Issue exists for tooling and tests.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs an access token for subject with the given role.
func (s *TokenService) Issue(subject string, role types.UserRole, ttl time.Duration) (string, error) {
	if subject == "" || !role.IsValid() {
		return "", fmt.Errorf("issue token: %w", ErrInvalidToken)
	}
	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role.String(),
		"jti":  uuid.NewString(),
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses token and returns the caller identity.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.Identity, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'sub' claim", ErrInvalidToken))
	}
	role, _ := mc["role"].(string)
	if !types.UserRole(role).IsValid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: invalid 'role' claim", ErrInvalidToken))
	}

	return &models.Identity{Subject: sub, Role: types.UserRole(role)}, nil
}
