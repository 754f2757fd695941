package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	UserID   string `json:"user_id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"unique;not null"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role" gorm:"not null"` // "Admin" or "Sales User"
	Password []byte `json:"-" gorm:"not null"`
	Status   string `json:"status" gorm:"default:Active"`
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}

// PasswordReset is a single-use token handed out by forgot-password.
// Delivery of the token (email) is outside this service.
type PasswordReset struct {
	Token     string    `json:"token" gorm:"primaryKey;size:64"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
