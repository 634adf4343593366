package domain

// RoleAdmin is the role value the backend assigns to store administrators.
const RoleAdmin = 1

// User is the identity behind a verified session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  int    `json:"role,omitempty"`
}

// Session is the result of one session verification.
type Session struct {
	Valid bool
	User  User
}

// Login is the backend's answer to a successful passcode verification.
type Login struct {
	UserID string
	Role   int
}

// Profile is the editable shopper profile.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Gender string `json:"gender"`
	// Picture is a reference to the stored profile image, when any.
	Picture string `json:"profile,omitempty"`
}
