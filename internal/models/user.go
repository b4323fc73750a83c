// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role defines the access level of a user account.
type Role string

const (
	// RoleAdmin may mutate any post and moderate all content.
	RoleAdmin Role = "admin"
	// RoleAuthor may create posts and mutate their own.
	RoleAuthor Role = "author"
)

// User represents an authenticated account in the Inkwell application.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'author'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Posts        []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
