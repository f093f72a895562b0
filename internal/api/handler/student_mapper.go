package handler

import (
	"time"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

// --- Request → Service input ---

// toStudentInput expects a request that already passed validation.
func toStudentInput(req studentRequest) ports.StudentInput {
	dob, _ := time.Parse(domain.DateLayout, req.DateOfBirth)
	return ports.StudentInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: dob,
	}
}

func toRegisterInput(req registerRequest) (ports.RegisterInput, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return ports.RegisterInput{}, domain.NewValidationError("role", "Role must be one of: USER ADMIN")
	}
	return ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	}, nil
}

// --- Service result → HTTP response ---

func toStudentResponse(s *domain.Student) studentResponse {
	return studentResponse{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth.UTC().Format(domain.DateLayout),
	}
}

func toStudentListResponse(items []*domain.Student) []studentResponse {
	out := make([]studentResponse, len(items))
	for i, s := range items {
		out[i] = toStudentResponse(s)
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
	}
}
