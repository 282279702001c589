package model

import (
	"time"
)

// Company is the tenant of the system: every project, activity and time
// entry carries its CompanyID and queries are always scoped by it.
type Company struct {
	CompanyID          string    `json:"companyId" gorm:"primaryKey;type:varchar(64)"`
	Name               string    `json:"name" gorm:"type:varchar(100)"`
	SubscriptionStatus string    `json:"subscriptionStatus" gorm:"type:varchar(20);default:'active'"`
	OwnerID            string    `json:"ownerId" gorm:"index;type:varchar(64)"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"-"`
}
