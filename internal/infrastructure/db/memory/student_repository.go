package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

type StudentRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*domain.Student
	byEmail map[string]int64
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		byID:    make(map[int64]*domain.Student),
		byEmail: make(map[string]int64),
	}
}

// List returns students ordered by id.
func (r *StudentRepository) List(context.Context) ([]*domain.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Student, 0, len(r.byID))
	for _, s := range r.byID {
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StudentRepository) FindByID(_ context.Context, id int64) (*domain.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	c := *s
	return &c, nil
}

func (r *StudentRepository) Create(_ context.Context, s *domain.Student) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(s.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, &domain.ConstraintViolation{Field: domain.FieldEmail, Constraint: "uk_students_email"}
	}

	r.nextID++
	stored := *s
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored
	r.byEmail[email] = stored.ID

	out := stored
	return &out, nil
}

func (r *StudentRepository) Update(_ context.Context, s *domain.Student) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[s.ID]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	email := strings.ToLower(s.Email)
	if owner, taken := r.byEmail[email]; taken && owner != s.ID {
		return nil, &domain.ConstraintViolation{Field: domain.FieldEmail, Constraint: "uk_students_email"}
	}

	delete(r.byEmail, strings.ToLower(current.Email))
	stored := *s
	r.byID[s.ID] = &stored
	r.byEmail[email] = s.ID

	out := stored
	return &out, nil
}

func (r *StudentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return domain.ErrStudentNotFound
	}
	delete(r.byEmail, strings.ToLower(s.Email))
	delete(r.byID, id)
	return nil
}
