// AngelaMos | 2026
// jwt.go

package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/lifesure-api/internal/config"
	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

const sessionTokenType = "session"

// JWTManager signs and verifies HS256 session tokens with a shared secret.
type JWTManager struct {
	key    jwk.Key
	config config.JWTConfig
	now    func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("jwt session ttl must be positive")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &JWTManager{
		key:    key,
		config: cfg,
		now:    time.Now,
	}, nil
}

type SessionClaims struct {
	Email string
	Role  string
}

type IssuedToken struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

func (m *JWTManager) Issue(claims SessionClaims) (*IssuedToken, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, fmt.Errorf("issue token: email required: %w", core.ErrInvalidInput)
	}

	now := m.now()
	expiresAt := now.Add(m.config.SessionTTL)
	jti := uuid.New().String()

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(email).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim("email", email).
		Claim("role", claims.Role).
		Claim("type", sessionTokenType).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		SessionID: jti,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, issuer, audience, type and validity window. Every
// failure wraps core.ErrTokenInvalid so callers cannot tell them apart.
func (m *JWTManager) Verify(tokenString string) (*middleware.Identity, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("verify token: empty: %w", core.ErrTokenInvalid)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != sessionTokenType {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, fmt.Errorf(
			"verify token: missing jti: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	//nolint:errcheck // role at issuance is informational
	_ = token.Get("role", &role)

	expiresAt, _ := token.Expiration()

	return &middleware.Identity{
		Email:      subject,
		IssuedRole: role,
		SessionID:  jti,
		ExpiresAt:  expiresAt,
	}, nil
}

func (m *JWTManager) TTL() time.Duration {
	return m.config.SessionTTL
}
