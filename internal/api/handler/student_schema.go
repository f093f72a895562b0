package handler

type studentRequest struct {
	FirstName   string `json:"firstName"   validate:"required,min=3,max=15,alpha"`
	LastName    string `json:"lastName"    validate:"required,min=3,max=15,alpha"`
	Email       string `json:"email"       validate:"required,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02,pastdate"`
}

type studentResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
}
