package models

import "time"

// Group identifiers as stored in the groups table.
const (
	GroupAdmin    = 1
	GroupStandard = 2
)

type User struct {
	ID           string    `json:"id"`
	GroupID      int       `json:"group_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user belongs to the admin group.
func (u *User) IsAdmin() bool {
	return u.GroupID == GroupAdmin
}
