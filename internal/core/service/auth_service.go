package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

// AuthService implements registration, login and token validation.
type AuthService struct {
	repo   ports.AuthRepository
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	log    zerolog.Logger

	// dummyHash is verified against on unknown-user logins.
	dummyHash string
}

// NewAuthService fails when the hasher cannot produce the digest used to
// equalise login timing for unknown users.
func NewAuthService(repo ports.AuthRepository, hasher ports.PasswordHasher, tokens ports.TokenCodec, log zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("timing-equaliser")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log, dummyHash: dummy}, nil
}

// Register hashes the password, persists the identity and issues a token.
// Uniqueness is left to the store; a reported collision is translated into
// ErrDuplicateUsername or ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthOutcome, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Username:     strings.TrimSpace(in.Username),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		var cv *domain.ConstraintViolation
		if errors.As(err, &cv) {
			switch cv.Field {
			case domain.FieldUsername:
				s.log.Info().Str("username", user.Username).Msg("registration rejected: username taken")
				return nil, domain.ErrDuplicateUsername
			case domain.FieldEmail:
				s.log.Info().Str("username", user.Username).Msg("registration rejected: email taken")
				return nil, domain.ErrDuplicateEmail
			}
		}
		s.log.Error().Err(err).Str("username", user.Username).Msg("failed to persist user")
		return nil, err
	}

	token, err := s.issue(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return &domain.AuthOutcome{Token: token}, nil
}

// Login resolves usernameOrEmail as a username first, then as an email.
// ErrUserNotFound and ErrInvalidCredentials stay distinct here so callers can
// log the reason; the HTTP layer renders both the same way.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.AuthOutcome, error) {
	id := strings.TrimSpace(usernameOrEmail)
	if id == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same hashing work as a real check so response time
			// does not reveal whether the identifier exists.
			_, _ = s.hasher.Verify(password, s.dummyHash)
			s.log.Info().Str("identifier", id).Msg("login failed: unknown user")
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.log.Info().Str("username", user.Username).Msg("login failed: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("username", user.Username).Msg("login succeeded")
	return &domain.AuthOutcome{Token: token}, nil
}

// Validate verifies a token and returns its claims.
func (s *AuthService) Validate(_ context.Context, token string) (*domain.Claims, error) {
	return s.tokens.Validate(token)
}

// Authenticate validates token and loads the identity it names. A token whose
// subject no longer exists is treated as invalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrTokenInvalid)
		}
		return nil, err
	}

	if !s.tokens.IsValidFor(token, user.Username) {
		return nil, domain.ErrTokenInvalid
	}
	return user, nil
}

func (s *AuthService) lookup(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.repo.FindByEmail(ctx, normalizeEmail(usernameOrEmail))
}

func (s *AuthService) issue(u *domain.User) (string, error) {
	token, err := s.tokens.Issue(u.Username, map[string]any{
		domain.ClaimRole: string(u.Role),
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Emails are compared case-insensitively by every store.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(in ports.RegisterInput) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(in.Username) == "" {
		ve.Add("username", "Username is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		ve.Add("email", "Email is required")
	}
	if in.Password == "" {
		ve.Add("password", "Password is required")
	}
	if !in.Role.Valid() {
		ve.Add("role", "Role should not be empty")
	}
	return ve.OrNil()
}
