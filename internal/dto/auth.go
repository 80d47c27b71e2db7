package dto

// GoogleCallbackRequest is the profile shape the upstream identity
// provider supplies after its own validation; the server only consumes
// it. State must match a login state previously issued by /auth/google.
type GoogleCallbackRequest struct {
	State     string `json:"state" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	IsTeacher bool   `json:"isTeacher"`
}

// RefreshTokenRequest carries the refresh token when it is sent in the
// body instead of the cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsTeacher bool   `json:"isTeacher"`
}

type LoginResponse struct {
	User UserResponse `json:"user"`
}
