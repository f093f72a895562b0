// Package password provides the salted, slow one-way hashes used for stored
// credentials.
package password

import (
	"fmt"
	"strings"
)

const (
	KindBcrypt   = "bcrypt"
	KindArgon2id = "argon2id"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// New returns the hasher named by kind. bcryptCost is ignored for argon2id.
func New(kind string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindBcrypt:
		return NewBcrypt(bcryptCost), nil
	case KindArgon2id, "argon2":
		return NewArgon2id(nil), nil
	default:
		return nil, fmt.Errorf("password: unknown hasher %q", kind)
	}
}
