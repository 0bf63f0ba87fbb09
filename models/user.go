package models

import (
	"time"
)

type PrincipalKind string

const (
	KindStudent PrincipalKind = "student"
	KindAdmin   PrincipalKind = "admin"
)

func (k PrincipalKind) Valid() bool {
	return k == KindStudent || k == KindAdmin
}

// Account holds the credential columns shared by students and admins.
// The two kinds live in separate tables, so an email may appear in both.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:hashed_password;size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	IsActive     bool      `gorm:"default:true;not null" json:"is_active"`
}

type Student struct {
	Account
}

func (Student) TableName() string { return "students" }

type Admin struct {
	Account
}

func (Admin) TableName() string { return "admins" }
