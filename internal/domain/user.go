package domain

import "time"

// Roles recognized by the authorization predicate.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a staff account. Token is the opaque API token presented on
// authenticated requests.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
