package handler

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	ResetToken  string `json:"reset_token"  validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type messageResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type resetTokenResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}
