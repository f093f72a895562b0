package domain

import "time"

// ClaimRole is the custom claim carrying the identity's role.
const ClaimRole = "role"

// Claims is the decoded payload of a token. It is a plain value; holding one
// says nothing about expiry unless it came from a validating call.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// ExpiredAt reports whether the claims are no longer valid at t.
func (c Claims) ExpiredAt(t time.Time) bool {
	return !t.Before(c.ExpiresAt)
}
