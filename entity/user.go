package entity

// RoleRegularUser is the role assigned at registration. Roles are static
// reference data seeded by the schema initializer.
const RoleRegularUser = "regular_user"

type User struct {
	ID           string `json:"user_id" db:"user_id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Verified     bool   `json:"verified" db:"verified"`
	Role         string `json:"role" db:"role"`
}

type Role struct {
	ID   int    `json:"role_id" db:"role_id"`
	Name string `json:"name" db:"name"`
}
