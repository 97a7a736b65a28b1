package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
)

const (
	tokenIssuer   = "newsfox"
	tokenAudience = "newsfox-api"

	// DefaultTokenTTL is used when JWT_TTL_HOURS is not configured.
	DefaultTokenTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims carried by a NewsFox auth token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

// IssueToken creates a signed HS256 token binding the user id to an expiry.
// Tokens are stateless; nothing is stored server-side.
func IssueToken(userID uint, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token string, returning the claims if
// the signature, issuer, audience and expiry all check out.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// MustTokenSecret returns the configured signing secret. An empty
// JWT_SECRET would make every token forgeable, so a missing value panics
// instead of falling back.
func MustTokenSecret() string {
	secret := env.GetEnv("JWT_SECRET", "")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	return secret
}

// TokenTTL returns the configured token lifetime.
func TokenTTL() time.Duration {
	hours := env.GetEnvInt("JWT_TTL_HOURS", 0)
	if hours <= 0 {
		return DefaultTokenTTL
	}
	return time.Duration(hours) * time.Hour
}
