package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

const defaultCacheTTL = 10 * time.Minute

type StudentService struct {
	repo     ports.StudentRepository
	cache    ports.StudentCache
	cacheTTL time.Duration
	logger   zerolog.Logger

	// writes counts updates and deletes per student id. A read only fills
	// the cache when no write landed between its store read and its Set.
	// The guard is per process; with several replicas a stale fill can still
	// survive until cacheTTL expires.
	mu     sync.Mutex
	writes map[int64]uint64
}

// NewStudentService returns a StudentService. cache may be nil.
func NewStudentService(repo ports.StudentRepository, cache ports.StudentCache, cacheTTL time.Duration, logger zerolog.Logger) *StudentService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &StudentService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		writes:   make(map[int64]uint64),
	}
}

func (s *StudentService) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	return s.repo.List(ctx)
}

// GetStudent reads through the cache when one is configured. Cache failures
// are logged and the store is consulted anyway.
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("student_id", id).Msg("cache read failed, reading store")
		} else if cached != nil {
			return cached, nil
		}
	}

	gen := s.generation(id)
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.fill(ctx, st, gen)
	}
	return st, nil
}

// fill caches st unless a write to the same id happened after gen was taken.
// The check and the Set run under mu so an invalidation cannot slip between
// them.
func (s *StudentService) fill(ctx context.Context, st *domain.Student, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes[st.ID] != gen {
		s.logger.Debug().Int64("student_id", st.ID).Msg("skipping cache fill, record changed during read")
		return
	}
	if err := s.cache.Set(ctx, st, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Int64("student_id", st.ID).Msg("cache write failed")
	}
}

func (s *StudentService) generation(id int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[id]
}

func (s *StudentService) CreateStudent(ctx context.Context, in ports.StudentInput) (*domain.Student, error) {
	if err := validateStudent(in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, toStudent(in))
	if err != nil {
		return nil, translateStudentErr(err)
	}

	s.logger.Info().Int64("student_id", created.ID).Msg("student created")
	return created, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, id int64, in ports.StudentInput) (*domain.Student, error) {
	if err := validateStudent(in); err != nil {
		return nil, err
	}

	st := toStudent(in)
	st.ID = id
	updated, err := s.repo.Update(ctx, st)
	if err != nil {
		return nil, translateStudentErr(err)
	}

	s.invalidate(ctx, id)
	s.logger.Info().Int64("student_id", id).Msg("student updated")
	return updated, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info().Int64("student_id", id).Msg("student deleted")
	return nil
}

func (s *StudentService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[id]++
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("student_id", id).Msg("cache invalidation failed")
	}
}

// translateStudentErr maps an email collision to ErrDuplicateEmail; anything
// else is returned as is.
func translateStudentErr(err error) error {
	var cv *domain.ConstraintViolation
	if errors.As(err, &cv) && cv.Field == domain.FieldEmail {
		return domain.ErrDuplicateEmail
	}
	return err
}

func toStudent(in ports.StudentInput) *domain.Student {
	return &domain.Student{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       normalizeEmail(in.Email),
		DateOfBirth: truncateDate(in.DateOfBirth),
	}
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateStudent(in ports.StudentInput) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(in.FirstName) == "" {
		ve.Add("firstName", "First name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		ve.Add("lastName", "Last name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		ve.Add("email", "Email is required")
	}
	if in.DateOfBirth.IsZero() {
		ve.Add("dateOfBirth", "Date of birth is required")
	} else if !truncateDate(in.DateOfBirth).Before(truncateDate(time.Now().UTC())) {
		ve.Add("dateOfBirth", "The date of birth must be in the past")
	}
	return ve.OrNil()
}
