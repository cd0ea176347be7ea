package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/models"
	"timetracker/services"
)

var monday = time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

func TestCreateEntry_RejectsBadHours(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	for _, hours := range []float64{0, -1, 24.5} {
		_, err := svc.CreateEntry(user, services.EntryInput{EntryDate: monday, Hours: hours})
		assert.ErrorIs(t, err, services.ErrInvalidHours, "hours=%v", hours)
	}

	var count int64
	require.NoError(t, db.Model(&models.TimesheetEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateEntry_WritesCreatedAudit(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	entry, err := svc.CreateEntry(user, services.EntryInput{
		EntryDate:   monday,
		Hours:       5,
		Description: "sprint work",
	})
	require.NoError(t, err)

	var audits []models.TimesheetEntryAudit
	require.NoError(t, db.Where("entry_id = ?", entry.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, "created", audits[0].Action)
	assert.Equal(t, "entry", audits[0].FieldName)
	assert.Equal(t, "2024-06-10 (5h)", audits[0].NewValue)
	assert.Equal(t, user.ID, audits[0].ActorID)
}

func TestCreateEntry_AddsHoursToLinkedTask(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)
	task := newTask(t, db, "build", 2)

	_, err := svc.CreateEntry(user, services.EntryInput{
		EntryDate: monday,
		Hours:     5.5,
		TaskID:    &task.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 7.5, taskLoggedHours(t, db, task.ID))
}

func TestWeekLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	manager := newUser(t, db, "manager@example.com", models.RoleProjectManager, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, &manager.ID)

	entry, err := svc.CreateEntry(user, services.EntryInput{EntryDate: monday, Hours: 5})
	require.NoError(t, err)

	// No summary row yet: the week is implicitly DRAFT.
	status, summary, err := svc.WeekStatus(user.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, models.WeekDraft, status)
	assert.Nil(t, summary)

	submitted, err := svc.SubmitWeek(user, monday, "all done")
	require.NoError(t, err)
	assert.Equal(t, models.WeekSubmitted, submitted.Status)
	assert.True(t, submitted.WeekStart.Equal(monday), "week_start = %s", submitted.WeekStart)
	assert.True(t, submitted.WeekEnd.Equal(monday.AddDate(0, 0, 6)), "week_end = %s", submitted.WeekEnd)
	assert.Equal(t, "all done", submitted.SubmitNote)
	require.NotNil(t, submitted.SubmittedAt)

	approved, err := svc.ApproveWeek(monday, user, manager, "looks right")
	require.NoError(t, err)
	assert.Equal(t, models.WeekApproved, approved.Status)
	assert.Equal(t, "looks right", approved.ApprovalNote)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, manager.ID, *approved.ApproverID)
	require.NotNil(t, approved.ApprovedAt)

	// Entries in the approved week are frozen.
	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{EntryDate: monday, Hours: 6})
	assert.ErrorIs(t, err, services.ErrWeekApproved)

	_, err = svc.CreateEntry(user, services.EntryInput{EntryDate: monday.AddDate(0, 0, 3), Hours: 2})
	assert.ErrorIs(t, err, services.ErrWeekApproved)

	// A neighbouring week is unaffected.
	_, err = svc.CreateEntry(user, services.EntryInput{EntryDate: monday.AddDate(0, 0, 7), Hours: 2})
	assert.NoError(t, err)
}

func TestSubmitWeek_ResubmitRefreshesNote(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	first, err := svc.SubmitWeek(user, monday, "first")
	require.NoError(t, err)

	second, err := svc.SubmitWeek(user, monday, "second")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.WeekSubmitted, second.Status)
	assert.Equal(t, "second", second.SubmitNote)

	var count int64
	require.NoError(t, db.Model(&models.TimesheetWeekSummary{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitWeek_ApprovedCannotBeResubmitted(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	admin := newUser(t, db, "admin@example.com", models.RoleAdmin, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	_, err := svc.SubmitWeek(user, monday, "")
	require.NoError(t, err)
	_, err = svc.ApproveWeek(monday, user, admin, "")
	require.NoError(t, err)

	_, err = svc.SubmitWeek(user, monday, "again")
	assert.ErrorIs(t, err, services.ErrAlreadyApproved)
}

func TestUnsubmitWeek(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	// Nothing submitted yet.
	_, err := svc.UnsubmitWeek(user, monday)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.SubmitWeek(user, monday, "done")
	require.NoError(t, err)

	summary, err := svc.UnsubmitWeek(user, monday)
	require.NoError(t, err)
	assert.Equal(t, models.WeekDraft, summary.Status)
	assert.Empty(t, summary.SubmitNote)
	assert.Nil(t, summary.SubmittedAt)
}

func TestUnsubmitWeek_ApprovedFails(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	admin := newUser(t, db, "admin@example.com", models.RoleAdmin, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	_, err := svc.SubmitWeek(user, monday, "")
	require.NoError(t, err)
	_, err = svc.ApproveWeek(monday, user, admin, "")
	require.NoError(t, err)

	_, err = svc.UnsubmitWeek(user, monday)
	assert.ErrorIs(t, err, services.ErrAlreadyApproved)
}

func TestApproveWeek_Failures(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	manager := newUser(t, db, "manager@example.com", models.RoleProjectManager, nil)
	outsider := newUser(t, db, "other@example.com", models.RoleProjectManager, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, &manager.ID)

	// No summary row at all.
	_, err := svc.ApproveWeek(monday, user, manager, "")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// A draft row exists but was never submitted.
	_, err = svc.SubmitWeek(user, monday, "")
	require.NoError(t, err)
	_, err = svc.UnsubmitWeek(user, monday)
	require.NoError(t, err)
	_, err = svc.ApproveWeek(monday, user, manager, "")
	assert.ErrorIs(t, err, services.ErrNotSubmitted)

	// Submitted, but the approver is not the line manager.
	_, err = svc.SubmitWeek(user, monday, "")
	require.NoError(t, err)
	_, err = svc.ApproveWeek(monday, user, outsider, "")
	assert.ErrorIs(t, err, services.ErrNotLineManager)
}

func TestUnapproveWeek(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	manager := newUser(t, db, "manager@example.com", models.RoleProjectManager, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, &manager.ID)

	_, err := svc.SubmitWeek(user, monday, "")
	require.NoError(t, err)

	// Not yet approved.
	_, err = svc.UnapproveWeek(monday, user, manager, "")
	assert.ErrorIs(t, err, services.ErrNotApproved)

	_, err = svc.ApproveWeek(monday, user, manager, "fine")
	require.NoError(t, err)

	summary, err := svc.UnapproveWeek(monday, user, manager, "needs another look")
	require.NoError(t, err)
	assert.Equal(t, models.WeekSubmitted, summary.Status)
	assert.Nil(t, summary.ApprovedAt)
	assert.Nil(t, summary.ApproverID)
	assert.Equal(t, "needs another look", summary.ApprovalNote)

	// Entries are editable again.
	entry, err := svc.CreateEntry(user, services.EntryInput{EntryDate: monday, Hours: 1})
	require.NoError(t, err)
	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{EntryDate: monday, Hours: 2})
	assert.NoError(t, err)
}

func TestUnapproveWeek_GateApplies(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	manager := newUser(t, db, "manager@example.com", models.RoleProjectManager, nil)
	outsider := newUser(t, db, "other@example.com", models.RoleProgrammeManager, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, &manager.ID)

	_, err := svc.SubmitWeek(user, monday, "")
	require.NoError(t, err)
	_, err = svc.ApproveWeek(monday, user, manager, "")
	require.NoError(t, err)

	_, err = svc.UnapproveWeek(monday, user, outsider, "")
	assert.ErrorIs(t, err, services.ErrNotLineManager)
}

func TestEditEntry_DescriptionOnlyEmitsOneAuditRow(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)
	task := newTask(t, db, "build", 0)

	entry, err := svc.CreateEntry(user, services.EntryInput{
		EntryDate:   monday,
		Hours:       4,
		Description: "draft notes",
		TaskID:      &task.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 4.0, taskLoggedHours(t, db, task.ID))

	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{
		EntryDate:   monday,
		Hours:       4,
		Description: "final notes",
		TaskID:      &task.ID,
	})
	require.NoError(t, err)

	var audits []models.TimesheetEntryAudit
	require.NoError(t, db.Where("entry_id = ? AND action = ?", entry.ID, "edited").Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, "description", audits[0].FieldName)
	assert.Equal(t, "draft notes", audits[0].OldValue)
	assert.Equal(t, "final notes", audits[0].NewValue)

	// Same task, same hours: the always-invoked ledger call nets to zero.
	assert.Equal(t, 4.0, taskLoggedHours(t, db, task.ID))
}

func TestEditEntry_MultiFieldAudit(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	entry, err := svc.CreateEntry(user, services.EntryInput{
		EntryDate:   monday,
		Hours:       4,
		Description: "before",
	})
	require.NoError(t, err)

	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{
		EntryDate:   monday.AddDate(0, 0, 1),
		Hours:       6.5,
		Description: "after",
	})
	require.NoError(t, err)

	var audits []models.TimesheetEntryAudit
	require.NoError(t, db.Where("entry_id = ? AND action = ?", entry.ID, "edited").Order("field_name").Find(&audits).Error)
	require.Len(t, audits, 3)

	byField := map[string]models.TimesheetEntryAudit{}
	for _, a := range audits {
		byField[a.FieldName] = a
	}
	assert.Equal(t, "2024-06-10", byField["entry_date"].OldValue)
	assert.Equal(t, "2024-06-11", byField["entry_date"].NewValue)
	assert.Equal(t, "4", byField["hours"].OldValue)
	assert.Equal(t, "6.5", byField["hours"].NewValue)
	assert.Equal(t, "before", byField["description"].OldValue)
	assert.Equal(t, "after", byField["description"].NewValue)
}

func TestEditEntry_TaskReassignmentMovesHours(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)
	oldTask := newTask(t, db, "design", 8)
	newTaskRow := newTask(t, db, "build", 1)

	entry, err := svc.CreateEntry(user, services.EntryInput{
		EntryDate: monday,
		Hours:     3,
		TaskID:    &oldTask.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 11.0, taskLoggedHours(t, db, oldTask.ID))

	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{
		EntryDate: monday,
		Hours:     4.5,
		TaskID:    &newTaskRow.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 8.0, taskLoggedHours(t, db, oldTask.ID))
	assert.Equal(t, 5.5, taskLoggedHours(t, db, newTaskRow.ID))

	// The link change itself is audited with plain id serialization.
	var audits []models.TimesheetEntryAudit
	require.NoError(t, db.Where("entry_id = ? AND field_name = ?", entry.ID, "task_id").Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.NotEmpty(t, audits[0].OldValue)
	assert.NotEmpty(t, audits[0].NewValue)
}

func TestEditEntry_TaskRemovalAuditsEmptyRef(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)
	task := newTask(t, db, "build", 1)

	entry, err := svc.CreateEntry(user, services.EntryInput{
		EntryDate: monday,
		Hours:     3,
		TaskID:    &task.ID,
	})
	require.NoError(t, err)

	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{
		EntryDate: monday,
		Hours:     3,
	})
	require.NoError(t, err)

	// 1 + 3 on create, -3 on unlink.
	assert.Equal(t, 1.0, taskLoggedHours(t, db, task.ID))

	var audits []models.TimesheetEntryAudit
	require.NoError(t, db.Where("entry_id = ? AND field_name = ?", entry.ID, "task_id").Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Empty(t, audits[0].NewValue)
}

func TestEditEntry_MoveIntoApprovedWeekFails(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	admin := newUser(t, db, "admin@example.com", models.RoleAdmin, nil)
	user := newUser(t, db, "staff@example.com", models.RoleStaff, nil)

	nextMonday := monday.AddDate(0, 0, 7)

	entry, err := svc.CreateEntry(user, services.EntryInput{EntryDate: monday, Hours: 5})
	require.NoError(t, err)

	_, err = svc.SubmitWeek(user, nextMonday, "")
	require.NoError(t, err)
	_, err = svc.ApproveWeek(nextMonday, user, admin, "")
	require.NoError(t, err)

	_, err = svc.EditEntry(entry.ID, user, services.EntryInput{EntryDate: nextMonday, Hours: 5})
	assert.ErrorIs(t, err, services.ErrWeekApproved)

	// The entry stays in its original week.
	var reloaded models.TimesheetEntry
	require.NoError(t, db.First(&reloaded, entry.ID).Error)
	assert.True(t, reloaded.EntryDate.Equal(monday), "entry_date = %s", reloaded.EntryDate)
}

func TestEditEntry_OwnershipAndExistence(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTimesheetService(db)
	admin := newUser(t, db, "admin@example.com", models.RoleAdmin, nil)
	owner := newUser(t, db, "owner@example.com", models.RoleStaff, nil)
	other := newUser(t, db, "other@example.com", models.RoleStaff, nil)

	entry, err := svc.CreateEntry(owner, services.EntryInput{EntryDate: monday, Hours: 5})
	require.NoError(t, err)

	_, err = svc.EditEntry(entry.ID, other, services.EntryInput{EntryDate: monday, Hours: 6})
	assert.ErrorIs(t, err, services.ErrNotOwner)

	// Admins may edit on behalf of anyone.
	_, err = svc.EditEntry(entry.ID, admin, services.EntryInput{EntryDate: monday, Hours: 6})
	assert.NoError(t, err)

	_, err = svc.EditEntry(99999, owner, services.EntryInput{EntryDate: monday, Hours: 6})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
