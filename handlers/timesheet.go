package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"timetracker/config"
	"timetracker/database"
	"timetracker/middleware"
	"timetracker/models"
	"timetracker/services"
)

type TimesheetHandler struct {
	config     *config.Config
	timesheets *services.TimesheetService
}

func NewTimesheetHandler(cfg *config.Config, svc *services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{config: cfg, timesheets: svc}
}

type entryRequest struct {
	EntryDate   string  `json:"entry_date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	ProjectID   *uint   `json:"project_id"`
	TaskID      *uint   `json:"task_id"`
}

func (req *entryRequest) toInput() (services.EntryInput, error) {
	date, err := parseDate(req.EntryDate)
	if err != nil {
		return services.EntryInput{}, err
	}
	return services.EntryInput{
		EntryDate:   date,
		Hours:       req.Hours,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
	}, nil
}

func (h *TimesheetHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeBadRequest(w, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	entry, err := h.timesheets.CreateEntry(user, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *TimesheetHandler) EditEntry(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid entry ID")
		return
	}

	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeBadRequest(w, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	entry, err := h.timesheets.EditEntry(uint(id), user, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// EntryAudits lists the append-only audit trail of one entry, oldest first.
func (h *TimesheetHandler) EntryAudits(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid entry ID")
		return
	}

	var entry models.TimesheetEntry
	if err := database.GetDB().First(&entry, id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Entry not found"})
		return
	}
	if entry.UserID != user.ID && !user.IsManagerRole() {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Forbidden"})
		return
	}

	var audits []models.TimesheetEntryAudit
	if err := database.GetDB().Where("entry_id = ?", id).Order("id").Find(&audits).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to load audit trail"})
		return
	}
	writeJSON(w, http.StatusOK, audits)
}

// WeekView renders the day-by-day completion of the week containing ?date=,
// defaulting to the requesting user; managers may pass ?user_id=.
func (h *TimesheetHandler) WeekView(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	target, ok := h.resolveTarget(w, r, user)
	if !ok {
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeBadRequest(w, "date query parameter is required (YYYY-MM-DD)")
		return
	}

	weekStart, weekEnd := services.ResolveWeek(date)
	status, summary, err := h.timesheets.WeekStatus(target.ID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	days, err := services.WeekCompletion(database.GetDB(), target, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var entries []models.TimesheetEntry
	err = database.GetDB().
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?", target.ID, weekStart, weekEnd).
		Order("entry_date, id").
		Find(&entries).Error
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to load entries"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"week_start": weekStart.Format(dateLayout),
		"week_end":   weekEnd.Format(dateLayout),
		"status":     status,
		"summary":    summary,
		"days":       days,
		"entries":    entries,
	})
}

type weekActionRequest struct {
	WeekStart string `json:"week_start"`
	Note      string `json:"note"`
	UserID    *uint  `json:"user_id"`
}

func (h *TimesheetHandler) SubmitWeek(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	req, date, ok := h.parseWeekAction(w, r)
	if !ok {
		return
	}

	summary, err := h.timesheets.SubmitWeek(user, date, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *TimesheetHandler) UnsubmitWeek(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	_, date, ok := h.parseWeekAction(w, r)
	if !ok {
		return
	}

	summary, err := h.timesheets.UnsubmitWeek(user, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *TimesheetHandler) ApproveWeek(w http.ResponseWriter, r *http.Request) {
	approver := middleware.GetUserFromContext(r.Context())

	req, date, ok := h.parseWeekAction(w, r)
	if !ok {
		return
	}
	target, ok := h.lookupWeekTarget(w, req)
	if !ok {
		return
	}

	summary, err := h.timesheets.ApproveWeek(date, target, approver, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *TimesheetHandler) UnapproveWeek(w http.ResponseWriter, r *http.Request) {
	approver := middleware.GetUserFromContext(r.Context())

	req, date, ok := h.parseWeekAction(w, r)
	if !ok {
		return
	}
	target, ok := h.lookupWeekTarget(w, req)
	if !ok {
		return
	}

	summary, err := h.timesheets.UnapproveWeek(date, target, approver, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ExportCSV streams a user's entries for the week containing ?date= as CSV.
func (h *TimesheetHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	target, ok := h.resolveTarget(w, r, user)
	if !ok {
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeBadRequest(w, "date query parameter is required (YYYY-MM-DD)")
		return
	}
	weekStart, weekEnd := services.ResolveWeek(date)

	var entries []models.TimesheetEntry
	err = database.GetDB().Preload("Project").Preload("Task").
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?", target.ID, weekStart, weekEnd).
		Order("entry_date, id").
		Find(&entries).Error
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to load entries"})
		return
	}

	filename := fmt.Sprintf("timesheet_%s_%s.csv", target.DisplayName(), weekStart.Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Date", "Project", "Task", "Hours", "Description"})
	for _, entry := range entries {
		projectName := ""
		taskName := ""
		if entry.Project != nil {
			projectName = entry.Project.Name
		}
		if entry.Task != nil {
			taskName = entry.Task.Name
		}
		writer.Write([]string{
			entry.EntryDate.Format(dateLayout),
			projectName,
			taskName,
			fmt.Sprintf("%.2f", entry.Hours),
			entry.Description,
		})
	}
}

func (h *TimesheetHandler) parseWeekAction(w http.ResponseWriter, r *http.Request) (weekActionRequest, time.Time, bool) {
	var req weekActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return req, time.Time{}, false
	}
	date, err := parseDate(req.WeekStart)
	if err != nil {
		writeBadRequest(w, "week_start is required (YYYY-MM-DD)")
		return req, time.Time{}, false
	}
	return req, date, true
}

func (h *TimesheetHandler) lookupWeekTarget(w http.ResponseWriter, req weekActionRequest) (*models.User, bool) {
	if req.UserID == nil {
		writeBadRequest(w, "user_id is required")
		return nil, false
	}
	var target models.User
	if err := database.GetDB().First(&target, *req.UserID).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return nil, false
	}
	return &target, true
}

// resolveTarget picks the subject user for read endpoints: self by default,
// any user for managers via ?user_id=.
func (h *TimesheetHandler) resolveTarget(w http.ResponseWriter, r *http.Request, user *models.User) (*models.User, bool) {
	userIDStr := r.URL.Query().Get("user_id")
	if userIDStr == "" {
		return user, true
	}

	id, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid user_id")
		return nil, false
	}
	if uint(id) != user.ID && !user.IsManagerRole() {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Forbidden"})
		return nil, false
	}

	var target models.User
	if err := database.GetDB().First(&target, id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return nil, false
	}
	return &target, true
}
