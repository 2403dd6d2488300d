package auth

import "time"

const (
	// MinUsernameLength mirrors the uniqueness/length constraint on the users table.
	MinUsernameLength = 3
	// MinPasswordLength applies to plaintext passwords before hashing.
	MinPasswordLength = 8
)

// User is an authenticatable account with its resolved role set.
// PasswordHash never leaves the service layer in API responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"full_name,omitempty"`
	Disabled     bool      `json:"disabled"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleNames projects the resolved role set into a flat name list for gates.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the user's resolved role set contains name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role is a named permission bucket.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleAssignment links one user to one role (composite key).
type RoleAssignment struct {
	UserID    int64     `json:"user_id"`
	RoleID    int64     `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser carries the fields accepted when creating an account.
// The plaintext password is hashed immediately and discarded.
type NewUser struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Disabled bool    `json:"disabled"`
	RoleIDs  []int64 `json:"role_ids"`
}

// UserUpdate is a partial update; nil fields are left untouched.
// RoleIDs, when present, replaces the full assignment set.
type UserUpdate struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	Disabled *bool   `json:"disabled"`
	RoleIDs  []int64 `json:"role_ids"`
}

// NewRole carries the fields accepted when creating a role.
type NewRole struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
