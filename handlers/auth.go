package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"timetracker/config"
	"timetracker/database"
	"timetracker/middleware"
	"timetracker/models"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	var user models.User
	if err := database.GetDB().Where("email = ?", req.Email).First(&user).Error; err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(&user, h.config.JWTExpiration)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to create session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type userRequest struct {
	Email                string      `json:"email"`
	FullName             string      `json:"full_name"`
	Password             string      `json:"password"`
	Role                 models.Role `json:"role"`
	CostRate             float64     `json:"cost_rate"`
	BillRate             float64     `json:"bill_rate"`
	ManagerID            *uint       `json:"manager_id"`
	LeaveEntitlementDays *float64    `json:"leave_entitlement_days"`
}

// CreateUser creates an account. The actor's role caps which roles it may
// hand out.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req userRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStaff
	}
	if !actor.CanManageRole(req.Role) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Role not permitted"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hashed),
		Role:         req.Role,
		Active:       true,
		CostRate:     req.CostRate,
		BillRate:     req.BillRate,
		ManagerID:    req.ManagerID,
	}
	if req.LeaveEntitlementDays != nil {
		user.LeaveEntitlementDays = *req.LeaveEntitlementDays
	}

	// New accounts inherit the organization-wide default schedule.
	defaults := loadDefaultHours()
	user.WorkingHoursMon = defaults[0]
	user.WorkingHoursTue = defaults[1]
	user.WorkingHoursWed = defaults[2]
	user.WorkingHoursThu = defaults[3]
	user.WorkingHoursFri = defaults[4]
	user.WorkingHoursSat = defaults[5]
	user.WorkingHoursSun = defaults[6]

	if err := database.GetDB().Create(&user).Error; err != nil {
		writeBadRequest(w, "Failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type userUpdateRequest struct {
	FullName             *string      `json:"full_name"`
	Role                 *models.Role `json:"role"`
	Active               *bool        `json:"active"`
	CostRate             *float64     `json:"cost_rate"`
	BillRate             *float64     `json:"bill_rate"`
	ManagerID            *uint        `json:"manager_id"`
	LeaveEntitlementDays *float64     `json:"leave_entitlement_days"`
	WorkingHours         *[7]float64  `json:"working_hours"`
}

func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid user ID")
		return
	}

	var user models.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return
	}

	var req userUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid body")
		return
	}

	targetRole := user.Role
	if req.Role != nil {
		targetRole = *req.Role
	}
	if !actor.CanManageRole(targetRole) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Role not permitted"})
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.CostRate != nil {
		user.CostRate = *req.CostRate
	}
	if req.BillRate != nil {
		user.BillRate = *req.BillRate
	}
	if req.ManagerID != nil {
		user.ManagerID = req.ManagerID
	}
	if req.LeaveEntitlementDays != nil {
		user.LeaveEntitlementDays = *req.LeaveEntitlementDays
	}
	if req.WorkingHours != nil {
		wh := *req.WorkingHours
		user.WorkingHoursMon = wh[0]
		user.WorkingHoursTue = wh[1]
		user.WorkingHoursWed = wh[2]
		user.WorkingHoursThu = wh[3]
		user.WorkingHoursFri = wh[4]
		user.WorkingHoursSat = wh[5]
		user.WorkingHoursSun = wh[6]
	}

	if err := database.GetDB().Save(&user).Error; err != nil {
		writeBadRequest(w, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeBadRequest(w, "Invalid user ID")
		return
	}

	var user models.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return
	}
	if !actor.CanManageRole(user.Role) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Role not permitted"})
		return
	}

	if err := database.GetDB().Delete(&user).Error; err != nil {
		writeBadRequest(w, "Failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := database.GetDB().Order("id").Find(&users).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to list users"})
		return
	}
	writeJSON(w, http.StatusOK, users)
}
