package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleProgrammeManager Role = "PROGRAMME_MANAGER"
	RoleProjectManager   Role = "PROJECT_MANAGER"
	RoleStaff            Role = "STAFF"
)

type User struct {
	ID                     uint                   `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	DeletedAt              gorm.DeletedAt         `gorm:"index" json:"-"`
	Email                  string                 `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FullName               string                 `gorm:"not null;size:120" json:"full_name"`
	PasswordHash           string                 `gorm:"not null" json:"-"`
	Role                   Role                   `gorm:"not null;size:30" json:"role"`
	Active                 bool                   `gorm:"default:true" json:"active"`
	CostRate               float64                `gorm:"default:0" json:"cost_rate"`
	BillRate               float64                `gorm:"default:0" json:"bill_rate"`
	LeaveEntitlementDays   float64                `gorm:"default:25" json:"leave_entitlement_days"`
	ManagerID              *uint                  `gorm:"index" json:"manager_id"`
	Manager                *User                  `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	WorkingHoursMon        float64                `gorm:"default:8" json:"working_hours_mon"`
	WorkingHoursTue        float64                `gorm:"default:8" json:"working_hours_tue"`
	WorkingHoursWed        float64                `gorm:"default:8" json:"working_hours_wed"`
	WorkingHoursThu        float64                `gorm:"default:8" json:"working_hours_thu"`
	WorkingHoursFri        float64                `gorm:"default:8" json:"working_hours_fri"`
	WorkingHoursSat        float64                `gorm:"default:0" json:"working_hours_sat"`
	WorkingHoursSun        float64                `gorm:"default:0" json:"working_hours_sun"`
	TimesheetEntries       []TimesheetEntry       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"timesheet_entries,omitempty"`
	TimesheetWeekSummaries []TimesheetWeekSummary `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"timesheet_weeks,omitempty"`
	LeaveRequests          []LeaveRequest         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"leave_requests,omitempty"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManagerRole() bool {
	return u.Role == RoleAdmin || u.Role == RoleProgrammeManager || u.Role == RoleProjectManager
}

// WorkingHoursFor returns the configured hours for a weekday.
func (u *User) WorkingHoursFor(day time.Weekday) float64 {
	switch day {
	case time.Monday:
		return u.WorkingHoursMon
	case time.Tuesday:
		return u.WorkingHoursTue
	case time.Wednesday:
		return u.WorkingHoursWed
	case time.Thursday:
		return u.WorkingHoursThu
	case time.Friday:
		return u.WorkingHoursFri
	case time.Saturday:
		return u.WorkingHoursSat
	default:
		return u.WorkingHoursSun
	}
}

// CanManageRole reports whether the user may create, update, or delete
// accounts holding the target role.
func (u *User) CanManageRole(target Role) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleProgrammeManager:
		return target == RoleProjectManager || target == RoleStaff
	case RoleProjectManager:
		return target == RoleStaff
	default:
		return false
	}
}
