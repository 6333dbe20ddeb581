package request_models

// LoginRequest authenticates an admin. Email is only needed when the
// allow-list of email+password pairs is used.
type LoginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}
