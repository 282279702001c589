package model

import (
	"time"
)

// User represents an account stored in the database. CompanyID is null
// until the user creates or joins a company; Token is the single active
// session credential and is null while logged out.
type User struct {
	UID         string    `json:"uid" gorm:"primaryKey;type:varchar(64)"`
	Email       string    `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password    string    `json:"-" gorm:"type:varchar(255)"`
	DisplayName string    `json:"displayName" gorm:"type:varchar(100)"`
	CompanyID   *string   `json:"companyId" gorm:"index;type:varchar(64)"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:'user'"`
	Token       *string   `json:"-" gorm:"index;type:varchar(128)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

const (
	RoleOwner = "owner"
	RoleUser  = "user"
)
