package models

import (
	"time"
)

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;size:140" json:"name"`
	Industry  string    `gorm:"size:120" json:"industry"`
	Projects  []Project `gorm:"foreignKey:CustomerID" json:"projects,omitempty"`
}

type Programme struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;not null;size:120" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ManagerID   *uint     `json:"manager_id"`
	Projects    []Project `gorm:"foreignKey:ProgrammeID" json:"projects,omitempty"`
}

type Project struct {
	ID                       uint                  `gorm:"primaryKey" json:"id"`
	CreatedAt                time.Time             `json:"created_at"`
	UpdatedAt                time.Time             `json:"updated_at"`
	CustomerID               *uint                 `gorm:"index" json:"customer_id"`
	Customer                 *Customer             `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProgrammeID              *uint                 `gorm:"index" json:"programme_id"`
	Programme                *Programme            `gorm:"foreignKey:ProgrammeID" json:"programme,omitempty"`
	Name                     string                `gorm:"uniqueIndex;not null;size:140" json:"name"`
	Description              string                `gorm:"type:text" json:"description"`
	ManagerID                *uint                 `json:"manager_id"`
	Status                   string                `gorm:"size:50;default:'planned'" json:"status"`
	PlannedHours             float64               `gorm:"default:0" json:"planned_hours"`
	PlannedMaterialBudget    float64               `gorm:"default:0" json:"planned_material_budget"`
	PlannedSubcontractBudget float64               `gorm:"default:0" json:"planned_subcontract_budget"`
	ProgressPercent          float64               `gorm:"default:0" json:"progress_percent"`
	WorkPackages             []WorkPackage         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"work_packages,omitempty"`
	ResourceRequirements     []ResourceRequirement `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"resource_requirements,omitempty"`
}

type WorkPackage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ProjectID       uint      `gorm:"not null;index" json:"project_id"`
	Name            string    `gorm:"not null;size:120" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	ProgressPercent float64   `gorm:"default:0" json:"progress_percent"`
	Tasks           []Task    `gorm:"foreignKey:WorkPackageID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// Task carries a running logged-hours accumulator kept in step with the
// timesheet entries that reference it. The accumulator is only ever mutated
// through services.ApplyTaskLoggedHoursEdit and never goes negative.
type Task struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	WorkPackageID   uint      `gorm:"not null;index" json:"work_package_id"`
	Name            string    `gorm:"not null;size:120" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	AssigneeID      *uint     `json:"assignee_id"`
	PlannedHours    float64   `gorm:"default:0" json:"planned_hours"`
	LoggedHours     float64   `gorm:"default:0" json:"logged_hours"`
	ProgressPercent float64   `gorm:"default:0" json:"progress_percent"`
}

type ResourceRequirement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ProjectID     uint      `gorm:"not null;index" json:"project_id"`
	ResourceType  string    `gorm:"not null;size:80" json:"resource_type"`
	Notes         string    `gorm:"type:text" json:"notes"`
	RequiredHours float64   `gorm:"default:0" json:"required_hours"`
	PlannedCost   float64   `gorm:"default:0" json:"planned_cost"`
}
