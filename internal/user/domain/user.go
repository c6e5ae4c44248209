package domain

// User is the public account record; it is also what gets persisted as the
// current user.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// StoredUser is an entry of the registered users list.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// Blank fields are rejected by the auth store with its own messages, so the
// requests carry no binding rules.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
