package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles. Only authors have statistics worth reading, but any user may engage.
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleReader = "reader"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex"`
	DisplayName  string    `json:"display_name" gorm:"size:100"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Role         string    `json:"role" gorm:"size:10;default:'reader'"`
	Bio          string    `json:"bio,omitempty"`
	FirebaseUID  *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	TotalFollows int64     `json:"total_follows" gorm:"not null;default:0"`   // inbound follow edges, denormalized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserCompact is the public subset of a user embedded in other responses
type UserCompact struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
