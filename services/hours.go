package services

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"timetracker/models"
)

type DayStatus string

const (
	DayComplete DayStatus = "complete"
	DayMissing  DayStatus = "missing"
	DayPartial  DayStatus = "partial"
)

// WeekdayHours holds per-weekday working hours, Monday at index 0 through
// Sunday at index 6.
type WeekdayHours [7]float64

// DefaultWeekdayHours is the hardcoded fallback when no organization-wide
// defaults are configured: 8h Monday to Friday, weekends off.
var DefaultWeekdayHours = WeekdayHours{8, 8, 8, 8, 8, 0, 0}

var weekdayConfigKeys = [7]string{
	"default_hours_mon",
	"default_hours_tue",
	"default_hours_wed",
	"default_hours_thu",
	"default_hours_fri",
	"default_hours_sat",
	"default_hours_sun",
}

// LoadDefaultWeekdayHours reads the organization-wide default working hours
// from the app_config store, falling back to DefaultWeekdayHours per day.
// Malformed stored values are skipped, not errored.
func LoadDefaultWeekdayHours(db *gorm.DB) WeekdayHours {
	hours := DefaultWeekdayHours

	var rows []models.AppConfig
	if err := db.Where("key IN ?", weekdayConfigKeys[:]).Find(&rows).Error; err != nil {
		return hours
	}
	for _, row := range rows {
		parsed, err := strconv.ParseFloat(row.Value, 64)
		if err != nil || parsed < 0 {
			continue
		}
		for i, key := range weekdayConfigKeys {
			if row.Key == key {
				hours[i] = parsed
			}
		}
	}
	return hours
}

// ExpectedHoursForDay computes how many hours the user is expected to log on
// the given day. A day covered by an approved leave request owes nothing
// regardless of the configured schedule.
func ExpectedHoursForDay(db *gorm.DB, user *models.User, day time.Time) (float64, error) {
	d := dateOnly(day)

	var onLeave int64
	err := db.Model(&models.LeaveRequest{}).
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			user.ID, models.LeaveApproved, d, d).
		Count(&onLeave).Error
	if err != nil {
		return 0, err
	}
	if onLeave > 0 {
		return 0, nil
	}
	return user.WorkingHoursFor(d.Weekday()), nil
}

// ClassifyDay buckets a day by logged versus expected hours.
func ClassifyDay(logged, expected float64) DayStatus {
	switch {
	case expected <= 0 && logged <= 0:
		return DayComplete
	case logged <= 0:
		return DayMissing
	case logged < expected:
		return DayPartial
	default:
		return DayComplete
	}
}

// DaySummary is one day of a user's week view.
type DaySummary struct {
	Date     time.Time `json:"date"`
	Expected float64   `json:"expected"`
	Logged   float64   `json:"logged"`
	Status   DayStatus `json:"status"`
}

// WeekCompletion renders the day-by-day completion of the week containing
// the given date.
func WeekCompletion(db *gorm.DB, user *models.User, day time.Time) ([]DaySummary, error) {
	weekStart, _ := ResolveWeek(day)

	days := make([]DaySummary, 7)
	for i := range days {
		d := weekStart.AddDate(0, 0, i)

		var logged float64
		err := db.Model(&models.TimesheetEntry{}).
			Select("COALESCE(SUM(hours), 0)").
			Where("user_id = ? AND entry_date = ?", user.ID, d).
			Scan(&logged).Error
		if err != nil {
			return nil, err
		}

		expected, err := ExpectedHoursForDay(db, user, d)
		if err != nil {
			return nil, err
		}

		days[i] = DaySummary{
			Date:     d,
			Expected: expected,
			Logged:   logged,
			Status:   ClassifyDay(logged, expected),
		}
	}
	return days, nil
}
