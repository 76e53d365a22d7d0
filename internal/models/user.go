// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level granted to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserStatus is the standing of an account.
type UserStatus string

const (
	StatusActive     UserStatus = "active"
	StatusTempBanned UserStatus = "temp-banned"
	StatusPermBanned UserStatus = "perm-banned"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusTempBanned, StatusPermBanned:
		return true
	}
	return false
}

// IsBanned reports whether the account is suspended.
func (s UserStatus) IsBanned() bool {
	return s == StatusTempBanned || s == StatusPermBanned
}

// User represents an account in the credential store.
type User struct {
	ID        string     `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	Username  string     `gorm:"uniqueIndex;size:64;not null" json:"username" bson:"username"`
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email" bson:"email"`
	Password  string     `gorm:"not null" json:"-" bson:"password"`
	Role      Role       `gorm:"size:16;not null;default:user" json:"role" bson:"role"`
	Status    UserStatus `gorm:"size:16;not null;default:active;index" json:"status" bson:"status"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Summary returns the public-safe view returned after signup.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Ref returns the author/admin reference embedded in posts and logs.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username}
}

// UserSummary is the public-safe view of a freshly created account.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserRef is a populated reference to another user.
type UserRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// UserWithVotes is a user annotated with how many true and false votes they cast.
type UserWithVotes struct {
	ID              string     `gorm:"column:id" json:"_id" bson:"_id"`
	Username        string     `gorm:"column:username" json:"username" bson:"username"`
	Email           string     `gorm:"column:email" json:"email" bson:"email"`
	Role            Role       `gorm:"column:role" json:"role" bson:"role"`
	Status          UserStatus `gorm:"column:status" json:"status" bson:"status"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"createdAt" bson:"createdAt"`
	TrueVotesCount  int64      `gorm:"column:true_votes_count" json:"trueVotesCount" bson:"trueVotesCount"`
	FalseVotesCount int64      `gorm:"column:false_votes_count" json:"falseVotesCount" bson:"falseVotesCount"`
}

// UserChartStats splits accounts for the admin pie chart.
type UserChartStats struct {
	TempBanned int64 `json:"tempBanned"`
	PermBanned int64 `json:"permBanned"`
	NewActive  int64 `json:"newActive"`
	OldActive  int64 `json:"oldActive"`
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}
