package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"timetracker/config"
	"timetracker/database"
	"timetracker/handlers"
	"timetracker/middleware"
	"timetracker/models"
	"timetracker/services"
)

func main() {
	cfg := config.Load()

	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := database.Init(cfg.DatabaseURL, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	timesheetService := services.NewTimesheetService(database.GetDB())
	leaveService := services.NewLeaveService(database.GetDB())

	authHandler := handlers.NewAuthHandler(cfg)
	timesheetHandler := handlers.NewTimesheetHandler(cfg, timesheetService)
	leaveHandler := handlers.NewLeaveHandler(cfg, leaveService)
	adminHandler := handlers.NewAdminHandler(cfg)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	router.Post("/login", authHandler.Login)
	router.Get("/logout", authHandler.Logout)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","date":"` + time.Now().UTC().Format("2006-01-02") + `"}`))
	})

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		// Timesheets
		r.Post("/timesheets", timesheetHandler.CreateEntry)
		r.Patch("/timesheets/{id}", timesheetHandler.EditEntry)
		r.Get("/timesheets/{id}/audits", timesheetHandler.EntryAudits)
		r.Get("/timesheets/week", timesheetHandler.WeekView)
		r.Post("/timesheets/week/submit", timesheetHandler.SubmitWeek)
		r.Post("/timesheets/week/unsubmit", timesheetHandler.UnsubmitWeek)
		r.Post("/timesheets/week/approve", timesheetHandler.ApproveWeek)
		r.Post("/timesheets/week/unapprove", timesheetHandler.UnapproveWeek)
		r.Get("/timesheets/export", timesheetHandler.ExportCSV)

		// Leave
		r.Post("/leave-requests", leaveHandler.RequestLeave)
		r.Get("/leave-requests", leaveHandler.ListLeave)
		r.Post("/leave-requests/{id}/decision", leaveHandler.DecideLeave)
		r.Post("/sick-leave", leaveHandler.ReportSickLeave)

		// Manager roles: user admin and project structure
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleProgrammeManager, models.RoleProjectManager))
			r.Get("/users", authHandler.ListUsers)
			r.Post("/users", authHandler.CreateUser)
			r.Patch("/users/{id}", authHandler.UpdateUser)
			r.Delete("/users/{id}", authHandler.DeleteUser)
			r.Post("/projects", adminHandler.CreateProject)
			r.Post("/projects/{id}/work-packages", adminHandler.CreateWorkPackage)
			r.Post("/projects/{id}/resource-requirements", adminHandler.CreateResourceRequirement)
			r.Post("/work-packages/{id}/tasks", adminHandler.CreateTask)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/admin/site-config", adminHandler.UpsertSiteConfig)
			r.Get("/admin/default-hours", adminHandler.DefaultHours)
		})
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
