package ports

import "github.com/spectrosystems/student-management-api/internal/core/domain"

// PasswordHasher is a salted one-way hash with constant-time verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch is
	// (false, nil); a malformed digest is an error.
	Verify(plaintext, digest string) (bool, error)
}

// TokenCodec issues and verifies signed, self-contained tokens.
type TokenCodec interface {
	Issue(subject string, extraClaims map[string]any) (string, error)
	Decode(token string) (*domain.Claims, error)
	ExtractSubject(token string) (string, error)
	IsValidFor(token, expectedSubject string) bool
	Validate(token string) (*domain.Claims, error)
}
