package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Type discriminates access from refresh credentials. Verify enforces the
// expected type, which makes cross-use of a refresh token as an access token
// structurally impossible.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Introspection is the result of verifying a credential. Active false means
// the token is unusable; no sub-cause is exposed (signature mismatch, wrong
// type and expiry are indistinguishable to callers).
type Introspection struct {
	Active    bool      `json:"active"`
	UserID    string    `json:"sub,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
}

// Codec produces and validates signed, time-bounded credentials. It performs
// no I/O and holds no mutable state, so a single instance is safe for
// concurrent use across requests.
type Codec struct {
	signer  Signer
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

// WithNowFunc sets the time source (primarily for testing)
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, options ...CodecOption) *Codec {
	c := &Codec{
		signer:  signer,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Issue builds and signs a claim set for the subject. The same secret and
// algorithm serve both token types; only typ and ttl differ.
func (c *Codec) Issue(subject, role string, typ Type, ttl time.Duration) (string, error) {
	now := c.nowFunc()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"typ":  string(typ),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  uuid.New().String(),
	}
	return c.signer.Sign(claims)
}

// Verify decodes and validates a credential against the expected type.
// It never returns an error: malformed input, a bad signature, a wrong typ
// claim and an elapsed expiry all yield the same inactive result.
func (c *Codec) Verify(rawToken string, expected Type) Introspection {
	if strings.TrimSpace(rawToken) == "" {
		return Introspection{}
	}

	parser := jwt.NewParser(
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.Parse(rawToken, c.signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return Introspection{}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Introspection{}
	}

	typ, _ := claims["typ"].(string)
	if typ != string(expected) {
		return Introspection{}
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)

	return Introspection{
		Active:    true,
		UserID:    sub,
		Role:      role,
		ExpiresAt: time.Unix(int64(exp), 0),
	}
}
