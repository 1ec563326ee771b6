package session

import (
	"context"
	"fmt"
	"time"

	"github.com/anantaclub/ananta/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo describes the stored credential for display. The token is
// decoded without verification; the server remains the only judge of it.
type TokenInfo struct {
	Present   bool
	Opaque    bool
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// TokenInfo reads the stored token and decodes its claims when it is a JWT.
func (s *Store) TokenInfo(ctx context.Context) (TokenInfo, error) {
	token, ok, err := s.kv.Get(ctx, common.TokenKey)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return TokenInfo{}, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{Present: true, Opaque: true}, nil
	}

	info := TokenInfo{Present: true, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
