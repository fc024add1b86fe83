package models

import (
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ValidEmail reports whether s is a bare address such as "demo@wisharea.com".
// Display-name forms like "Demo <demo@wisharea.com>" are rejected.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(100);not null" json:"name"`
	Avatar       string         `gorm:"type:varchar(512)" json:"avatar,omitempty"`
	Role         Role           `gorm:"type:varchar(20);default:'customer'" json:"role"`
	PasswordHash string         `gorm:"type:varchar(100);not null" json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}
