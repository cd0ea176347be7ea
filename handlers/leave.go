package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"timetracker/config"
	"timetracker/database"
	"timetracker/middleware"
	"timetracker/models"
	"timetracker/services"
)

type LeaveHandler struct {
	config *config.Config
	leave  *services.LeaveService
}

func NewLeaveHandler(cfg *config.Config, svc *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{config: cfg, leave: svc}
}

type leaveRequestBody struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (h *LeaveHandler) RequestLeave(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req leaveRequestBody
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeBadRequest(w, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeBadRequest(w, "Invalid end_date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeBadRequest(w, "end_date must not be before start_date")
		return
	}

	leave, err := h.leave.RequestLeave(user, start, end, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, leave)
}

type leaveDecisionBody struct {
	Approve bool `json:"approve"`
}

func (h *LeaveHandler) DecideLeave(w http.ResponseWriter, r *http.Request) {
	approver := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid request ID")
		return
	}

	var req leaveDecisionBody
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return
	}

	leave, err := h.leave.DecideLeave(uint(id), approver, req.Approve)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leave)
}

func (h *LeaveHandler) ListLeave(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	query := database.GetDB().Order("start_date desc")
	if !user.IsManagerRole() {
		query = query.Where("user_id = ?", user.ID)
	}

	var requests []models.LeaveRequest
	if err := query.Find(&requests).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to list leave requests"})
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *LeaveHandler) ReportSickLeave(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Notes     string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeBadRequest(w, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeBadRequest(w, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	record := models.SickLeaveRecord{
		UserID:    user.ID,
		StartDate: start,
		EndDate:   end,
		Notes:     req.Notes,
	}
	if err := database.GetDB().Create(&record).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to record sick leave"})
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
