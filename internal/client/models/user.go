package models

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReseller Role = "reseller"
)

// User is the authenticated account as reported by /api/auth/me.
type User struct {
	ID       ID       `json:"id"`
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	Plan     string   `json:"plan,omitempty"`
	Balance  *float64 `json:"balance,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RoleTitle is the label shown next to the username.
func (u *User) RoleTitle() string {
	if u.IsAdmin() {
		return "Administrator"
	}
	return "Seller"
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
