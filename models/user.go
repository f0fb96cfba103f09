package models

import "time"

type UserRole string

const (
	RoleCreator  UserRole = "creator"
	RoleAssignee UserRole = "assignee"
)

// User is keyed by Username; the username is immutable once created.
// Password holds the bcrypt hash, never the plain secret.
type User struct {
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	FullName   string    `json:"fullName,omitempty"`
	Department string    `json:"department,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       UserRole  `json:"role,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Session is the explicit sign-in context handed to callers instead of a
// process-wide current-user singleton. Created on sign-in, destroyed on
// sign-out, persisted under the currentUser store key.
type Session struct {
	Username   string    `json:"username"`
	Role       UserRole  `json:"role,omitempty"`
	Token      string    `json:"token,omitempty"`
	SignedInAt time.Time `json:"signedInAt"`
}
