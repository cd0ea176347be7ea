package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"timetracker/config"
	"timetracker/database"
	"timetracker/models"
	"timetracker/services"
)

// AdminHandler covers project structure CRUD and site configuration.
type AdminHandler struct {
	config *config.Config
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{config: cfg}
}

func loadDefaultHours() services.WeekdayHours {
	return services.LoadDefaultWeekdayHours(database.GetDB())
}

type projectRequest struct {
	Name                     string  `json:"name"`
	Description              string  `json:"description"`
	CustomerID               *uint   `json:"customer_id"`
	ProgrammeID              *uint   `json:"programme_id"`
	ManagerID                *uint   `json:"manager_id"`
	Status                   string  `json:"status"`
	PlannedHours             float64 `json:"planned_hours"`
	PlannedMaterialBudget    float64 `json:"planned_material_budget"`
	PlannedSubcontractBudget float64 `json:"planned_subcontract_budget"`
}

func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if req.Status == "" {
		req.Status = "planned"
	}

	project := models.Project{
		Name:                     req.Name,
		Description:              req.Description,
		CustomerID:               req.CustomerID,
		ProgrammeID:              req.ProgrammeID,
		ManagerID:                req.ManagerID,
		Status:                   req.Status,
		PlannedHours:             req.PlannedHours,
		PlannedMaterialBudget:    req.PlannedMaterialBudget,
		PlannedSubcontractBudget: req.PlannedSubcontractBudget,
	}
	if err := database.GetDB().Create(&project).Error; err != nil {
		writeBadRequest(w, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *AdminHandler) CreateWorkPackage(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid project ID")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	wp := models.WorkPackage{
		ProjectID:   uint(projectID),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := database.GetDB().Create(&wp).Error; err != nil {
		writeBadRequest(w, "Failed to create work package")
		return
	}
	writeJSON(w, http.StatusCreated, wp)
}

func (h *AdminHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	workPackageID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid work package ID")
		return
	}

	var req struct {
		Name         string  `json:"name"`
		Description  string  `json:"description"`
		AssigneeID   *uint   `json:"assignee_id"`
		PlannedHours float64 `json:"planned_hours"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	task := models.Task{
		WorkPackageID: uint(workPackageID),
		Name:          req.Name,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		PlannedHours:  req.PlannedHours,
	}
	if err := database.GetDB().Create(&task).Error; err != nil {
		writeBadRequest(w, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *AdminHandler) CreateResourceRequirement(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid project ID")
		return
	}

	var req struct {
		ResourceType  string  `json:"resource_type"`
		Notes         string  `json:"notes"`
		RequiredHours float64 `json:"required_hours"`
		PlannedCost   float64 `json:"planned_cost"`
	}
	if err := decodeBody(r, &req); err != nil || req.ResourceType == "" {
		writeBadRequest(w, "resource_type is required")
		return
	}

	requirement := models.ResourceRequirement{
		ProjectID:     uint(projectID),
		ResourceType:  req.ResourceType,
		Notes:         req.Notes,
		RequiredHours: req.RequiredHours,
		PlannedCost:   req.PlannedCost,
	}
	if err := database.GetDB().Create(&requirement).Error; err != nil {
		writeBadRequest(w, "Failed to create resource requirement")
		return
	}
	writeJSON(w, http.StatusCreated, requirement)
}

// UpsertSiteConfig writes one app_config key/value row, creating it if
// absent. Backs the organization-wide default working hours among others.
func (h *AdminHandler) UpsertSiteConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil || req.Key == "" {
		writeBadRequest(w, "key is required")
		return
	}

	db := database.GetDB()
	var row models.AppConfig
	err := db.Where("key = ?", req.Key).First(&row).Error
	if err == nil {
		row.Value = req.Value
		err = db.Save(&row).Error
	} else {
		row = models.AppConfig{Key: req.Key, Value: req.Value}
		err = db.Create(&row).Error
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to store config"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DefaultHours reports the effective organization default schedule.
func (h *AdminHandler) DefaultHours(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"default_hours": loadDefaultHours()})
}
