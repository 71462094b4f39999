package types

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleClient   Role = "Client"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// ParseRole converts a stored role name into a Role.
// Unknown names map to RoleClient, the least privileged role.
func ParseRole(name string) Role {
	switch Role(name) {
	case RoleEmployee:
		return RoleEmployee
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleClient
	}
}

// Elevated reports whether the role may manage inventory and other accounts.
func (r Role) Elevated() bool {
	switch r {
	case RoleEmployee, RoleAdmin:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Account represents a registered user of the dealership site.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"id" db:"account_id"`

	// FirstName is the account holder's given name.
	FirstName string `json:"first_name" db:"account_firstname"`

	// LastName is the account holder's family name.
	LastName string `json:"last_name" db:"account_lastname"`

	// Email is the login identifier. It is unique across accounts.
	Email string `json:"email" db:"account_email"`

	// PasswordHash stores the bcrypt hash of the account password.
	// This field is never exposed in views or tokens.
	PasswordHash string `json:"-" db:"account_password"`

	// Role indicates the account's authorization level.
	Role Role `json:"role" db:"account_type"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent profile or password change.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WithoutPassword returns a copy of the account with the password hash cleared.
func (a Account) WithoutPassword() Account {
	a.PasswordHash = ""
	return a
}
