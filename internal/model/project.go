package model

import (
	"time"
)

// DefaultColor is used when a project is created without a color and as
// the placeholder color for stats rows whose project no longer exists.
const DefaultColor = "#E91E63"

// Project belongs to exactly one company and is visible only to its
// members.
type Project struct {
	ProjectID   string    `json:"projectId" gorm:"primaryKey;type:varchar(64)"`
	CompanyID   string    `json:"companyId" gorm:"index;type:varchar(64);not null"`
	Name        string    `json:"name" gorm:"type:varchar(100)"`
	Description string    `json:"description" gorm:"type:text"`
	Color       string    `json:"color" gorm:"type:varchar(10)"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
