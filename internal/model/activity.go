package model

import (
	"time"
)

// Activity is a sub-task of a project. Its ProjectID must resolve to a
// project of the same company.
type Activity struct {
	ActivityID  string    `json:"activityId" gorm:"primaryKey;type:varchar(64)"`
	ProjectID   string    `json:"projectId" gorm:"index;type:varchar(64);not null"`
	CompanyID   string    `json:"companyId" gorm:"index;type:varchar(64);not null"`
	Name        string    `json:"name" gorm:"type:varchar(100)"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
