// Package auth validates HS256 bearer tokens and carries the caller's scopes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes understood by the analytics API.
const (
	ScopeRead  = "analytics:read"
	ScopeWrite = "analytics:write"
)

// Config holds signer verification parameters.
type Config struct {
	Secret string
	Issuer string
}

// Enabled reports whether tokens are checked at all.
func (c Config) Enabled() bool {
	return c.Secret != ""
}

// Claims is the normalized token payload.
type Claims struct {
	Subject   string
	Scopes    map[string]struct{}
	ExpiresAt time.Time
}

var (
	// ErrMissingToken is returned when the Authorization header is absent.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken wraps parsing/validation errors.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Parse validates a JWT and returns normalized claims.
func Parse(token string, cfg Config) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Claims{
		Subject:   subject,
		Scopes:    normalizeScopes(claims["scope"], claims["scopes"]),
		ExpiresAt: exp.Time,
	}, nil
}

// Issue signs a token for subject carrying scopes. Used by tooling and tests.
func Issue(cfg Config, subject string, scopes []string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":    subject,
		"scopes": scopes,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// normalizeScopes accepts the space separated "scope" claim and the "scopes" array.
func normalizeScopes(values ...interface{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, value := range values {
		switch v := value.(type) {
		case []interface{}:
			for _, item := range v {
				if str, ok := item.(string); ok && str != "" {
					out[str] = struct{}{}
				}
			}
		case string:
			for _, str := range strings.Fields(v) {
				out[str] = struct{}{}
			}
		}
	}
	return out
}

// HasScope reports whether the claim set includes scope. Write implies read.
func (c *Claims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.Scopes[scope]; ok {
		return true
	}
	if scope == ScopeRead {
		_, ok := c.Scopes[ScopeWrite]
		return ok
	}
	return false
}
