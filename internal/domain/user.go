package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user has been approved and can use the system.
	UserStatusActive UserStatus = "active"
	// UserStatusPending indicates the user is awaiting admin approval.
	UserStatusPending UserStatus = "pending"
)

// User represents an authenticated user account in the system.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string     `json:"display_name"`
	IsRoot       bool       `json:"is_root"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status,omitempty"` // empty = active for records predating approval
	ApprovedBy   string     `json:"approved_by,omitempty"`
	ApprovedAt   time.Time  `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  time.Time  `json:"last_login_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// IsApproved returns true if the user's account has been approved.
// Empty status is treated as approved for records created before the
// approval workflow existed.
func (u *User) IsApproved() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// IsPending returns true if the user is awaiting admin approval.
func (u *User) IsPending() bool {
	return u.Status == UserStatusPending
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new user.
func (u *User) InitTimestamps() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}
