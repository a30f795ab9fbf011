package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lnclinic/prontuario/internal/domain"
)

// TokenClaims is the informational payload of the session token. The
// client does not hold the server's signing secret, so these claims are
// parsed without verification and are used for display only — never as an
// authorization decision, which belongs to CheckToken.
type TokenClaims struct {
	Username  string
	ExpiresAt time.Time
}

// TokenClaims decodes the current token's claims. Returns
// domain.ErrUnauthorized when no token is present.
func (m *Manager) TokenClaims() (*TokenClaims, error) {
	token := m.Token()
	if token == "" {
		return nil, fmt.Errorf("session: no token: %w", domain.ErrUnauthorized)
	}
	return parseClaims(token)
}

func parseClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}

	out := &TokenClaims{}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
