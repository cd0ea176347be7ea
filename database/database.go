package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timetracker/models"
)

var DB *gorm.DB

func Init(dsn, adminEmail, adminPassword string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	return seedBootstrapAdmin(DB, adminEmail, adminPassword)
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Programme{},
		&models.Project{},
		&models.WorkPackage{},
		&models.Task{},
		&models.ResourceRequirement{},
		&models.TimesheetEntry{},
		&models.TimesheetWeekSummary{},
		&models.TimesheetEntryAudit{},
		&models.LeaveRequest{},
		&models.SickLeaveRecord{},
		&models.AppConfig{},
	)
}

// seedBootstrapAdmin creates the initial admin account when no admin exists
// yet, so a fresh deployment is reachable.
func seedBootstrapAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        email,
		FullName:     "System Admin",
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Active:       true,
		CostRate:     120,
		BillRate:     250,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Bootstrap admin user created (%s)", email)
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
