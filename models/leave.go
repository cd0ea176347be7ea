package models

import (
	"time"

	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

type LeaveRequest struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StartDate  time.Time      `gorm:"not null;type:date" json:"start_date"`
	EndDate    time.Time      `gorm:"not null;type:date" json:"end_date"`
	Reason     string         `gorm:"type:text" json:"reason"`
	Status     LeaveStatus    `gorm:"not null;size:20;default:'PENDING'" json:"status"`
	ReviewerID *uint          `json:"reviewer_id"`
	Reviewer   *User          `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// Covers reports whether the request's date range includes the given day.
func (l *LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(l.StartDate) && !day.After(l.EndDate)
}

type SickLeaveRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StartDate time.Time `gorm:"not null;type:date" json:"start_date"`
	EndDate   time.Time `gorm:"not null;type:date" json:"end_date"`
	Notes     string    `gorm:"type:text" json:"notes"`
}
