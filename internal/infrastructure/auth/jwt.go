package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/biztime"
)

const defaultAccessTTL = 60 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the caller identity in the registered "sub" claim.
type Claims struct {
	Role authorization.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTService(secret string, accessTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	return &JWTService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// Generate signs an HS256 access token for subject with the given role.
func (s *JWTService) Generate(subject string, role authorization.UserRole) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	now := biztime.NowUTC()

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	claims.Role = authorization.ParseUserRole(string(claims.Role))
	return claims, nil
}

// AccessTTL returns how long issued tokens stay valid.
func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}
