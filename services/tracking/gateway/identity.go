package gateway

import (
	"context"
	"fmt"

	jwtpkg "github.com/piresc/ordertrack/internal/pkg/jwt"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
)

// IdentityGateway validates credentials issued by the identity service
type IdentityGateway struct {
	cfg models.JWTConfig
}

// NewIdentityGateway creates a new identity gateway
func NewIdentityGateway(cfg models.JWTConfig) *IdentityGateway {
	return &IdentityGateway{cfg: cfg}
}

// VerifyCredential resolves a bearer token to the identity it was issued for
func (g *IdentityGateway) VerifyCredential(ctx context.Context, credential string) (*models.Identity, error) {
	claims, err := jwtpkg.ValidateToken(credential, g.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tracking.ErrInvalidCredential, err)
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", tracking.ErrInvalidCredential, claims.Role)
	}

	return &models.Identity{UserID: claims.UserID, Role: role}, nil
}
