package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/security/password"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/security/token"
)

type stubAuthRepo struct {
	users     map[string]*domain.User
	nextID    int64
	createErr error
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, &domain.ConstraintViolation{Field: domain.FieldUsername, Constraint: "uk_username"}
		}
		if u.Email == user.Email {
			return nil, &domain.ConstraintViolation{Field: domain.FieldEmail, Constraint: "uk_email"}
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.Username] = copy
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// prefixHasher is a fast stand-in for a real hasher.
type prefixHasher struct {
	verifyCalls int
	hashErr     error
}

func (h *prefixHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + p, nil
}

func (h *prefixHasher) Verify(p, digest string) (bool, error) {
	h.verifyCalls++
	return digest == "hashed:"+p, nil
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	c, err := token.NewCodec(bytes.Repeat([]byte("s"), token.MinKeyLength), time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func newTestAuthService(t *testing.T) (*AuthService, *stubAuthRepo, *prefixHasher, *token.Codec) {
	t.Helper()
	repo := newStubAuthRepo()
	hasher := &prefixHasher{}
	codec := newTestCodec(t)
	svc, err := NewAuthService(repo, hasher, codec, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc, repo, hasher, codec
}

func TestNewAuthService_FailsWithoutDummyDigest(t *testing.T) {
	hashErr := errors.New("entropy exhausted")
	_, err := NewAuthService(newStubAuthRepo(), &prefixHasher{hashErr: hashErr}, newTestCodec(t), zerolog.Nop())
	if !errors.Is(err, hashErr) {
		t.Fatalf("expected hasher error, got %v", err)
	}
}

func registerInput(username, email string) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName: "Alice",
		LastName:  "Liddell",
		Username:  username,
		Email:     email,
		Password:  "longenough1",
		Role:      domain.RoleUser,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _, codec := newTestAuthService(t)

	out, err := svc.Register(context.Background(), registerInput("alice", "a@x.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	claims, err := codec.Decode(out.Token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Subject != "alice" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	stored := repo.users["alice"]
	if stored == nil || stored.ID == 0 {
		t.Fatalf("expected persisted user with id, got %+v", stored)
	}
	if stored.PasswordHash == "longenough1" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestAuthService_Register_RealHasher(t *testing.T) {
	repo := newStubAuthRepo()
	svc, err := NewAuthService(repo, password.NewBcrypt(bcrypt.MinCost), newTestCodec(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	if _, err := svc.Register(context.Background(), registerInput("carol", "carol@example.com")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users["carol"].PasswordHash), []byte("longenough1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "carol", "longenough1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	in := registerInput("", "")
	in.Role = "GUEST"
	_, err := svc.Register(context.Background(), in)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"username", "email", "role"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("expected field %q in %+v", f, ve.Fields)
		}
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("bob", "bob@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(ctx, registerInput("bob", "other@example.com")); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := svc.Register(ctx, registerInput("robert", "bob@example.com")); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, registerInput("robert", "robert@example.com")); err != nil {
		t.Fatalf("distinct identity should register: %v", err)
	}
}

func TestAuthService_Register_PropagatesUnclassifiedErrors(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	dbErr := errors.New("connection reset")
	repo.createErr = dbErr
	if _, err := svc.Register(context.Background(), registerInput("dan", "dan@example.com")); err != dbErr {
		t.Fatalf("expected original error, got %v", err)
	}

	unknown := &domain.ConstraintViolation{Constraint: "uk_something"}
	repo.createErr = unknown
	if _, err := svc.Register(context.Background(), registerInput("dan", "dan@example.com")); err != unknown {
		t.Fatalf("expected unmodified violation, got %v", err)
	}
}

func TestAuthService_Login_ByUsernameAndEmail(t *testing.T) {
	svc, _, _, codec := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("alice", "a@x.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, id := range []string{"alice", "a@x.com"} {
		out, err := svc.Login(ctx, id, "longenough1")
		if err != nil {
			t.Fatalf("login with %q: %v", id, err)
		}
		sub, err := codec.ExtractSubject(out.Token)
		if err != nil || sub != "alice" {
			t.Fatalf("login with %q: subject %q, err %v", id, sub, err)
		}
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _, hasher, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("dave", "dave@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	before := hasher.verifyCalls
	if _, err := svc.Login(ctx, "ghost", "badpass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if hasher.verifyCalls != before+1 {
		t.Fatalf("expected a verification even for unknown users")
	}
	if svc.dummyHash != "hashed:timing-equaliser" {
		t.Fatalf("unknown-user login verified against %q", svc.dummyHash)
	}

	if _, err := svc.Login(ctx, "  ", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank input, got %v", err)
	}
}

func TestAuthService_ValidateAndAuthenticate(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)
	ctx := context.Background()

	out, err := svc.Register(ctx, registerInput("erin", "erin@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := svc.Validate(ctx, out.Token)
	if err != nil || claims.Subject != "erin" {
		t.Fatalf("Validate: %+v %v", claims, err)
	}

	user, err := svc.Authenticate(ctx, out.Token)
	if err != nil || user.Username != "erin" || user.Role != domain.RoleUser {
		t.Fatalf("Authenticate: %+v %v", user, err)
	}

	if _, err := svc.Authenticate(ctx, out.Token+"x"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}

	delete(repo.users, "erin")
	if _, err := svc.Authenticate(ctx, out.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for deleted subject, got %v", err)
	}
}

func TestAuthService_Scenario(t *testing.T) {
	svc, _, _, codec := newTestAuthService(t)
	ctx := context.Background()

	t1, err := svc.Register(ctx, registerInput("alice", "a@x.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sub, _ := codec.ExtractSubject(t1.Token); sub != "alice" {
		t.Fatalf("T1 subject = %q", sub)
	}

	t2, err := svc.Login(ctx, "alice", "longenough1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sub, _ := codec.ExtractSubject(t2.Token); sub != "alice" {
		t.Fatalf("T2 subject = %q", sub)
	}

	_, err = svc.Register(ctx, registerInput("alice", "other@x.com"))
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if strings.Contains(err.Error(), "hashed:") {
		t.Fatalf("error leaks credential material: %v", err)
	}
}
