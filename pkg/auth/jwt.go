package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature was good but exp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure.
	ErrTokenInvalid = errors.New("token invalid")
)

// Subject is the sub claim. Issuers disagree on its JSON type, so both
// "42" and 42 decode to "42".
type Subject string

func (s *Subject) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Subject(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("sub claim: %w", err)
	}
	*s = Subject(n.String())
	return nil
}

// ID parses a numeric subject. ok is false for empty or non-numeric ones.
func (s Subject) ID() (id int64, ok bool) {
	id, err := strconv.ParseInt(string(s), 10, 64)
	return id, err == nil
}

// Claims shadows RegisteredClaims.Subject with the lenient Subject type.
type Claims struct {
	Sub   Subject `json:"sub,omitempty"`
	Email string  `json:"email"`
	Name  string  `json:"name,omitempty"`
	Role  string  `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 session tokens against a shared secret.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// WithLeeway allows for clock skew between the issuer and this process.
func (v *Verifier) WithLeeway(d time.Duration) *Verifier {
	v.leeway = d
	return v
}

func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(v.leeway))
	}

	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// NewSessionToken issues a token in the same shape the hotel auth endpoint
// does. Production tokens come from upstream; this is for local runs and tests.
// A zero sub leaves the claim out.
func NewSessionToken(sub int64, email, name, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	var subject Subject
	if sub != 0 {
		subject = Subject(strconv.FormatInt(sub, 10))
	}
	claims := Claims{
		Sub:   subject,
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
