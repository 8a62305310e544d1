package model

// Credentials are used for login and signup.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password/{token}.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// StatusMessage is the generic {"message": "..."} response.
type StatusMessage struct {
	Message string `json:"message"`
}
