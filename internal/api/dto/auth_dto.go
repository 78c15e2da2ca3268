package dto

// LoginRequest payload for credential verification.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// JwtResponse is the login response bundle. The password is never echoed.
type JwtResponse struct {
	Token     string   `json:"token"`
	Type      string   `json:"type"`
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}
