package models

import (
	"time"

	"gorm.io/gorm"
)

type TimesheetWeekStatus string

const (
	WeekDraft     TimesheetWeekStatus = "DRAFT"
	WeekSubmitted TimesheetWeekStatus = "SUBMITTED"
	WeekApproved  TimesheetWeekStatus = "APPROVED"
)

type TimesheetEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID   *uint          `gorm:"index" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	TaskID      *uint          `gorm:"index" json:"task_id"`
	Task        *Task          `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	EntryDate   time.Time      `gorm:"not null;type:date;index" json:"entry_date"`
	Hours       float64        `gorm:"not null" json:"hours"`
	Description string         `gorm:"type:text" json:"description"`
}

// TimesheetWeekSummary tracks submission and approval of one user's
// Monday-to-Sunday week. A missing row means the week is still DRAFT;
// the row is created lazily on first submission and never deleted.
type TimesheetWeekSummary struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	UserID       uint                `gorm:"not null;index:idx_user_week,unique" json:"user_id"`
	WeekStart    time.Time           `gorm:"not null;type:date;index:idx_user_week,unique" json:"week_start"`
	WeekEnd      time.Time           `gorm:"not null;type:date" json:"week_end"`
	Status       TimesheetWeekStatus `gorm:"not null;size:20;default:'DRAFT'" json:"status"`
	SubmitNote   string              `gorm:"type:text" json:"submit_note"`
	ApprovalNote string              `gorm:"type:text" json:"approval_note"`
	SubmittedAt  *time.Time          `json:"submitted_at"`
	ApprovedAt   *time.Time          `json:"approved_at"`
	ApproverID   *uint               `json:"approver_id"`
	Approver     *User               `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

// TimesheetEntryAudit is an append-only record of one field change on one
// entry mutation. Rows are never updated or deleted.
type TimesheetEntryAudit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EntryID   uint      `gorm:"not null;index" json:"entry_id"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	Action    string    `gorm:"not null;size:60" json:"action"`
	FieldName string    `gorm:"size:120" json:"field_name"`
	OldValue  string    `gorm:"type:text" json:"old_value"`
	NewValue  string    `gorm:"type:text" json:"new_value"`
}
