package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"timetracker/models"
)

// TimesheetService owns the timesheet entry store and the per-user weekly
// submission/approval state machine. Every mutation runs in one database
// transaction so entry, audit, and task logged-hour writes land together.
type TimesheetService struct {
	db *gorm.DB
}

func NewTimesheetService(db *gorm.DB) *TimesheetService {
	return &TimesheetService{db: db}
}

// EntryInput is the full mutable field set of a timesheet entry.
type EntryInput struct {
	EntryDate   time.Time
	Hours       float64
	Description string
	ProjectID   *uint
	TaskID      *uint
}

// CreateEntry validates and persists a new entry for the actor, records a
// "created" audit row, and adds the hours to the linked task if any.
// Fails when the entry's week is already approved.
func (s *TimesheetService) CreateEntry(actor *models.User, in EntryInput) (*models.TimesheetEntry, error) {
	if in.Hours <= 0 || in.Hours > 24 {
		return nil, ErrInvalidHours
	}
	entryDate := dateOnly(in.EntryDate)
	weekStart, _ := ResolveWeek(entryDate)

	entry := models.TimesheetEntry{
		UserID:      actor.ID,
		ProjectID:   in.ProjectID,
		TaskID:      in.TaskID,
		EntryDate:   entryDate,
		Hours:       in.Hours,
		Description: in.Description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		status, _, err := weekStatus(tx, actor.ID, weekStart)
		if err != nil {
			return err
		}
		if status == models.WeekApproved {
			return ErrWeekApproved
		}

		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		audit := models.TimesheetEntryAudit{
			EntryID:   entry.ID,
			ActorID:   actor.ID,
			Action:    "created",
			FieldName: "entry",
			NewValue:  fmt.Sprintf("%s (%sh)", formatDate(entryDate), formatHours(in.Hours)),
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if in.TaskID != nil {
			task, err := loadTask(tx, *in.TaskID)
			if err != nil {
				return err
			}
			if task != nil {
				ApplyTaskLoggedHoursEdit(nil, task, 0, in.Hours)
				if err := tx.Save(task).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// EditEntry applies a full-field edit to an entry, emitting one audit row
// per changed field and reconciling task logged hours against the old and
// new task links. Fails when the entry's current week is approved, or when
// the edit would move the entry into an approved week.
func (s *TimesheetService) EditEntry(entryID uint, actor *models.User, in EntryInput) (*models.TimesheetEntry, error) {
	if in.Hours <= 0 || in.Hours > 24 {
		return nil, ErrInvalidHours
	}
	newDate := dateOnly(in.EntryDate)

	var entry models.TimesheetEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if entry.UserID != actor.ID && !actor.IsAdmin() {
			return ErrNotOwner
		}

		oldWeek, _ := ResolveWeek(entry.EntryDate)
		status, _, err := weekStatus(tx, entry.UserID, oldWeek)
		if err != nil {
			return err
		}
		if status == models.WeekApproved {
			return ErrWeekApproved
		}
		newWeek, _ := ResolveWeek(newDate)
		if !newWeek.Equal(oldWeek) {
			status, _, err := weekStatus(tx, entry.UserID, newWeek)
			if err != nil {
				return err
			}
			if status == models.WeekApproved {
				return ErrWeekApproved
			}
		}

		old := entry
		var audits []models.TimesheetEntryAudit
		record := func(field, oldValue, newValue string) {
			audits = append(audits, models.TimesheetEntryAudit{
				EntryID:   entry.ID,
				ActorID:   actor.ID,
				Action:    "edited",
				FieldName: field,
				OldValue:  oldValue,
				NewValue:  newValue,
			})
		}

		if !old.EntryDate.Equal(newDate) {
			record("entry_date", formatDate(old.EntryDate), formatDate(newDate))
			entry.EntryDate = newDate
		}
		if old.Hours != in.Hours {
			record("hours", formatHours(old.Hours), formatHours(in.Hours))
			entry.Hours = in.Hours
		}
		if old.Description != in.Description {
			record("description", old.Description, in.Description)
			entry.Description = in.Description
		}
		if !refEqual(old.ProjectID, in.ProjectID) {
			record("project_id", formatRef(old.ProjectID), formatRef(in.ProjectID))
			entry.ProjectID = in.ProjectID
		}
		if !refEqual(old.TaskID, in.TaskID) {
			record("task_id", formatRef(old.TaskID), formatRef(in.TaskID))
			entry.TaskID = in.TaskID
		}

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		if len(audits) > 0 {
			if err := tx.Create(&audits).Error; err != nil {
				return err
			}
		}

		// Task totals are reconsidered on every edit, changed or not.
		return reconcileTaskHours(tx, old.TaskID, in.TaskID, old.Hours, in.Hours)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SubmitWeek moves the week containing day to SUBMITTED, creating the
// summary row on first submission. Resubmitting an already submitted week
// refreshes the note and timestamp; an approved week cannot be resubmitted.
func (s *TimesheetService) SubmitWeek(user *models.User, day time.Time, note string) (*models.TimesheetWeekSummary, error) {
	weekStart, weekEnd := ResolveWeek(day)

	var summary *models.TimesheetWeekSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		status, existing, err := weekStatus(tx, user.ID, weekStart)
		if err != nil {
			return err
		}
		if status == models.WeekApproved {
			return ErrAlreadyApproved
		}
		if existing == nil {
			existing = &models.TimesheetWeekSummary{
				UserID:    user.ID,
				WeekStart: weekStart,
				WeekEnd:   weekEnd,
			}
		}
		now := time.Now()
		existing.Status = models.WeekSubmitted
		existing.SubmitNote = note
		existing.SubmittedAt = &now
		summary = existing
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// UnsubmitWeek returns a submitted week to DRAFT, clearing the submission
// note and timestamp. Fails when no summary exists or the week is approved.
func (s *TimesheetService) UnsubmitWeek(user *models.User, day time.Time) (*models.TimesheetWeekSummary, error) {
	weekStart, _ := ResolveWeek(day)

	var summary *models.TimesheetWeekSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		status, existing, err := weekStatus(tx, user.ID, weekStart)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		if status == models.WeekApproved {
			return ErrAlreadyApproved
		}
		existing.Status = models.WeekDraft
		existing.SubmitNote = ""
		existing.SubmittedAt = nil
		summary = existing
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ApproveWeek moves a submitted week to APPROVED. The approver must pass
// the authorization gate for the target user.
func (s *TimesheetService) ApproveWeek(day time.Time, target, approver *models.User, note string) (*models.TimesheetWeekSummary, error) {
	if !CanApprove(approver, target) {
		return nil, ErrNotLineManager
	}
	weekStart, _ := ResolveWeek(day)

	var summary *models.TimesheetWeekSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		status, existing, err := weekStatus(tx, target.ID, weekStart)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		if status != models.WeekSubmitted {
			return ErrNotSubmitted
		}
		now := time.Now()
		existing.Status = models.WeekApproved
		existing.ApprovedAt = &now
		existing.ApproverID = &approver.ID
		existing.ApprovalNote = note
		summary = existing
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// UnapproveWeek returns an approved week to SUBMITTED, clearing the
// approval timestamp and approver while recording the given note. The
// approver must pass the authorization gate.
func (s *TimesheetService) UnapproveWeek(day time.Time, target, approver *models.User, note string) (*models.TimesheetWeekSummary, error) {
	if !CanApprove(approver, target) {
		return nil, ErrNotLineManager
	}
	weekStart, _ := ResolveWeek(day)

	var summary *models.TimesheetWeekSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		status, existing, err := weekStatus(tx, target.ID, weekStart)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		if status != models.WeekApproved {
			return ErrNotApproved
		}
		existing.Status = models.WeekSubmitted
		existing.ApprovedAt = nil
		existing.ApproverID = nil
		existing.ApprovalNote = note
		summary = existing
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// WeekStatus reports the state of the week containing day for a user. A
// missing summary row is an implicit DRAFT, so the state machine is total
// over all (user, week) pairs; the returned summary is nil in that case.
func (s *TimesheetService) WeekStatus(userID uint, day time.Time) (models.TimesheetWeekStatus, *models.TimesheetWeekSummary, error) {
	weekStart, _ := ResolveWeek(day)
	return weekStatus(s.db, userID, weekStart)
}

func weekStatus(tx *gorm.DB, userID uint, weekStart time.Time) (models.TimesheetWeekStatus, *models.TimesheetWeekSummary, error) {
	var summary models.TimesheetWeekSummary
	err := tx.Where("user_id = ? AND week_start = ?", userID, weekStart).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WeekDraft, nil, nil
	}
	if err != nil {
		return models.WeekDraft, nil, err
	}
	return summary.Status, &summary, nil
}

// reconcileTaskHours loads the old and new task rows and applies the
// logged-hours edit. A dangling task reference is skipped rather than
// failing the edit.
func reconcileTaskHours(tx *gorm.DB, oldID, newID *uint, oldHours, newHours float64) error {
	var oldTask, newTask *models.Task

	if oldID != nil {
		t, err := loadTask(tx, *oldID)
		if err != nil {
			return err
		}
		oldTask = t
	}
	if newID != nil {
		if oldID != nil && *oldID == *newID {
			newTask = oldTask
		} else {
			t, err := loadTask(tx, *newID)
			if err != nil {
				return err
			}
			newTask = t
		}
	}

	ApplyTaskLoggedHoursEdit(oldTask, newTask, oldHours, newHours)

	if oldTask != nil {
		if err := tx.Save(oldTask).Error; err != nil {
			return err
		}
	}
	if newTask != nil && newTask != oldTask {
		if err := tx.Save(newTask).Error; err != nil {
			return err
		}
	}
	return nil
}

func loadTask(tx *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	err := tx.First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'g', -1, 64)
}

func formatRef(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func refEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
