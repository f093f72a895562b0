// Package token issues and verifies the bearer tokens handed out at login.
//
// Tokens are HS256 JWTs carrying sub, iat and exp plus any extra claims the
// caller supplies. Nothing is stored server side: a token is valid exactly as
// long as its signature verifies and its exp lies in the future.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

const (
	// DefaultValidity is the lifetime of an issued token (3 600 000 ms).
	DefaultValidity = time.Hour
	// MinKeyLength is the minimum HS256 key size in bytes.
	MinKeyLength = 32
)

var ErrShortKey = errors.New("token: signing key must be at least 32 bytes")

// Codec signs and verifies tokens with a symmetric key.
//
// The key is only as durable as its source. A key from GenerateKey lives for
// this process alone: restarting invalidates every token already issued, and
// instances that each generated their own key cannot verify one another's
// tokens. Supply a shared key through configuration to avoid both.
//
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	key      []byte
	validity time.Duration
	now      func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// GenerateKey returns a random key suitable for NewCodec.
func GenerateKey() ([]byte, error) {
	key := make([]byte, MinKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("token: generate key: %w", err)
	}
	return key, nil
}

// NewCodec builds a Codec. A non-positive validity falls back to DefaultValidity.
func NewCodec(key []byte, validity time.Duration, opts ...Option) (*Codec, error) {
	if len(key) < MinKeyLength {
		return nil, ErrShortKey
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	c := &Codec{
		key:      append([]byte(nil), key...),
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Validity returns the configured token lifetime.
func (c *Codec) Validity() time.Duration { return c.validity }

// Issue signs a token for subject. Extra claims are merged first so the
// registered sub, iat and exp claims always win.
func (c *Codec) Issue(subject string, extraClaims map[string]any) (string, error) {
	now := c.now()

	claims := make(jwt.MapClaims, len(extraClaims)+3)
	for k, v := range extraClaims {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(c.validity))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and structure of token and returns its
// claims. Expiry is not checked here; see Validate and IsValidFor.
func (c *Codec) Decode(token string) (*domain.Claims, error) {
	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, mc, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return toClaims(mc)
}

// ExtractSubject returns the subject of a verified token.
func (c *Codec) ExtractSubject(token string) (string, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValidFor reports whether token verifies, names expectedSubject and has
// not yet expired.
func (c *Codec) IsValidFor(token, expectedSubject string) bool {
	claims, err := c.Decode(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && !claims.ExpiredAt(c.now())
}

// Validate decodes token and rejects it once expired.
func (c *Codec) Validate(token string) (*domain.Claims, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.ExpiredAt(c.now()) {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}

func (c *Codec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.key, nil
}

func toClaims(mc jwt.MapClaims) (*domain.Claims, error) {
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}
	iat, err := mc.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, fmt.Errorf("%w: missing iat", domain.ErrTokenInvalid)
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp", domain.ErrTokenInvalid)
	}

	claims := &domain.Claims{
		Subject:   sub,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}
	for k, v := range mc {
		switch k {
		case "sub", "iat", "exp":
			continue
		case domain.ClaimRole:
			if s, ok := v.(string); ok {
				claims.Role = domain.Role(s)
				continue
			}
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}
	return claims, nil
}
