package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectrosystems/student-management-api/internal/api"
	"github.com/spectrosystems/student-management-api/internal/core/service"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/config"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/security/password"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/security/token"
	"github.com/spectrosystems/student-management-api/pkg/logger"
)

const serviceName = "student-management-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Service: serviceName})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// ── Security ─────────────────────────────────────────────
	codec, err := newTokenCodec(cfg.Auth, log)
	if err != nil {
		return err
	}
	hasher, err := password.New(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	// ── Persistence ──────────────────────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// ── Services ─────────────────────────────────────────────
	authService, err := service.NewAuthService(st.users, hasher, codec, logger.Component("auth"))
	if err != nil {
		return err
	}
	studentService := service.NewStudentService(st.students, st.cache, cfg.Redis.StudentTTL, logger.Component("students"))

	// ── HTTP ─────────────────────────────────────────────────
	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		StudentService: studentService,
		Logger:         logger.Component("http"),
		Checks:         st.checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutCtx)
}

// newTokenCodec uses JWT_SECRET when set. Otherwise a key is generated for
// this process only: tokens stop verifying after a restart and are not
// accepted by other instances.
func newTokenCodec(cfg config.AuthConfig, log zerolog.Logger) (*token.Codec, error) {
	key := []byte(cfg.JWTSecret)
	if len(key) == 0 {
		generated, err := token.GenerateKey()
		if err != nil {
			return nil, err
		}
		key = generated
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral signing key; tokens will not survive a restart")
	}
	return token.NewCodec(key, cfg.TokenTTL)
}
