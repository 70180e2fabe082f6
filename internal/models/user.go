package models

import "time"

// User roles understood by the RBAC layer.
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
	RoleAdmin     = "admin"
)

// User represents an account that can enroll in or teach courses.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsInstructor reports whether the user may manage course content.
func (u User) IsInstructor() bool {
	return u.Role == RoleProfessor || u.Role == RoleAdmin
}
