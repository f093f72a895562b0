package handler

import "time"

// --- Request / Response types ---

type registerRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=3,max=15,alpha"`
	LastName  string `json:"lastName"  form:"lastName"  validate:"required,min=3,max=15,alpha"`
	Username  string `json:"username"  form:"username"  validate:"required,min=3,max=20"`
	Email     string `json:"email"     form:"email"     validate:"required,email"`
	Password  string `json:"password"  form:"password"  validate:"required,min=8,max=25"`
	Role      string `json:"role"      form:"role"      validate:"required,oneof=USER ADMIN"`
}

// loginRequest is accepted as JSON, as a form, or as query parameters.
type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" form:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        form:"password"        validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// errorResponse documents the error envelope rendered by the central handler.
type errorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
