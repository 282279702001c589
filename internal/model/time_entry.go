package model

import (
	"time"
)

// Entry types. Break entries count toward breakTime in the stats, never
// toward work time or pomodoro counts.
const (
	EntryTypePomodoro = "pomodoro"
	EntryTypeManual   = "manual"
	EntryTypeBreak    = "break"
)

// ValidEntryType reports whether t is one of the known entry types.
func ValidEntryType(t string) bool {
	switch t {
	case EntryTypePomodoro, EntryTypeManual, EntryTypeBreak:
		return true
	}
	return false
}

// TimeEntry is a logged block of time. It is owned by the user who
// created it: every query is scoped by both CompanyID and UserID, so not
// even members of the same company can see each other's entries.
type TimeEntry struct {
	EntryID    string    `json:"entryId" gorm:"primaryKey;type:varchar(64)"`
	UserID     string    `json:"userId" gorm:"index;type:varchar(64);not null"`
	CompanyID  string    `json:"companyId" gorm:"index;type:varchar(64);not null"`
	ProjectID  string    `json:"projectId" gorm:"index;type:varchar(64);not null"`
	ActivityID *string   `json:"activityId" gorm:"index;type:varchar(64)"`
	Duration   int       `json:"duration"` // seconds
	Type       string    `json:"type" gorm:"type:varchar(20)"`
	Notes      string    `json:"notes" gorm:"type:text"`
	Date       string    `json:"date" gorm:"index;type:varchar(10)"` // UTC day, YYYY-MM-DD
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
