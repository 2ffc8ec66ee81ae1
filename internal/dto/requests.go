package dto

// SignupRequest represents a local signup request. ConfirmPassword must
// match Password; the mismatch is reported specifically, unlike login
// failures.
type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	DisplayName     string `json:"display_name" binding:"omitempty,max=120"`
}

// LoginRequest represents a local login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name  string `json:"name" binding:"required,max=120"`
	Email string `json:"email" binding:"required,email"`
	Body  string `json:"body" binding:"required,max=4000"`
}

// UserResponse represents a user in responses. It never carries the
// password hash or provider identifiers.
type UserResponse struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FullName  *string `json:"fullname"`
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	ImageURL  *string `json:"image_url"`
	Online    bool    `json:"online"`
	CreatedAt string  `json:"created_at"`
}

// LoginResponse represents a successful authentication
type LoginResponse struct {
	User UserResponse `json:"user"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
