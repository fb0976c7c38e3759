package domain

import "time"

// Role determines which notifications a user receives.
type Role string

const (
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ReviewerRoles are the roles notified about flagged and corrected entries.
var ReviewerRoles = []Role{RoleManager, RoleAdmin}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleWorker, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is a person who clocks in, or reviews those who do.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsReviewer returns true for managers and admins.
func (u User) IsReviewer() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
