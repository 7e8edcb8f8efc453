package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email,omitempty"`
	Role      Role    `json:"role"`
	IsActive  *bool   `json:"is_active,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
}

type UserPage struct {
	Users []User `json:"users"`
	Page
}
