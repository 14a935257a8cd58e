// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/middleware"
)

// Revoker tracks logged out session ids until their tokens expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	jwt     *JWTManager
	roles   *RoleResolver
	users   UserProvider
	revoker Revoker
}

func NewService(
	jwt *JWTManager,
	roles *RoleResolver,
	users UserProvider,
	revoker Revoker,
) *Service {
	return &Service{
		jwt:     jwt,
		roles:   roles,
		users:   users,
		revoker: revoker,
	}
}

// IssueSession signs a token for email. The embedded role is whatever
// storage says right now, never what the client asked for.
func (s *Service) IssueSession(
	ctx context.Context,
	email string,
) (*IssuedToken, string, error) {
	role, err := s.roles.ResolveRole(ctx, email)
	if err != nil {
		return nil, "", err
	}

	issued, err := s.jwt.Issue(SessionClaims{Email: email, Role: role})
	if err != nil {
		return nil, "", err
	}

	return issued, role, nil
}

func (s *Service) VerifySession(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	identity, err := s.jwt.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, identity.SessionID)
		if err != nil {
			return nil, fmt.Errorf("verify session: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
		}
	}

	return identity, nil
}

func (s *Service) Logout(ctx context.Context, identity *middleware.Identity) error {
	if identity == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}
	if s.revoker == nil {
		return nil
	}

	ttl := time.Until(identity.ExpiresAt)
	if err := s.revoker.Revoke(ctx, identity.SessionID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) CurrentUser(
	ctx context.Context,
	email string,
) (*MeResponse, error) {
	role, err := s.roles.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}

	resp := &MeResponse{Email: email, Role: role}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return resp, nil
	case err != nil:
		return nil, fmt.Errorf("current user: %w", err)
	}

	resp.ID = user.ID
	resp.Name = user.Name
	resp.PhotoURL = user.PhotoURL
	resp.Registered = true

	return resp, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
