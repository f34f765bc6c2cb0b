package access

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/pkg/auth"
)

// Session is the verified caller. Handlers read it from the request context
// instead of re-parsing cookies.
type Session struct {
	UserID  int64  // zero when the sub claim is missing or not numeric
	Subject string // raw sub claim
	Email   string
	Name    string
	Role    domain.Role
	Token   string // raw bearer token, forwarded to the hotel API
}

func newSession(c *auth.Claims, role domain.Role, token string) *Session {
	id, _ := c.Sub.ID()
	return &Session{
		UserID:  id,
		Subject: string(c.Sub),
		Email:   c.Email,
		Name:    c.Name,
		Role:    role,
		Token:   token,
	}
}

// Principal identifies the caller for per-user scoping. It is never empty,
// falling back to a digest of the token when the claims carry no identity.
func (s *Session) Principal() string {
	switch {
	case s.UserID != 0:
		return strconv.FormatInt(s.UserID, 10)
	case s.Subject != "":
		return "sub:" + s.Subject
	case s.Email != "":
		return "email:" + s.Email
	default:
		sum := sha256.Sum256([]byte(s.Token))
		return "token:" + hex.EncodeToString(sum[:8])
	}
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached by the gate middleware.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
