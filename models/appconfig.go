package models

import (
	"time"
)

// AppConfig is a loosely typed key/value row for organization-wide settings,
// such as the default weekday working hours used when seeding new users.
type AppConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Key       string    `gorm:"uniqueIndex;not null;size:80" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
}
