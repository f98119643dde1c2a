package models

import "time"

type User struct {
	Model
	Email                  string    `json:"email" gorm:"size:191;not null;uniqueIndex"`
	Password               string    `json:"-"`
	Role                   string    `json:"role" gorm:"size:32"`
	AccountActivated       bool      `json:"-"`
	AccountActivationToken string    `json:"-" gorm:"size:64;index"`
	PasswordResetToken     string    `json:"-" gorm:"size:64;index"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// UserProfile shares its id with the owning User.
type UserProfile struct {
	Model
	FullName  string    `json:"full_name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SignupData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
