package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timetracker/database"
	"timetracker/models"
)

// newTestDB opens a private in-memory database with the full schema. The
// pool is pinned to one connection so the in-memory database survives for
// the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string, role models.Role, managerID *uint) *models.User {
	t.Helper()

	user := models.User{
		Email:           email,
		FullName:        email,
		PasswordHash:    "x",
		Role:            role,
		Active:          true,
		ManagerID:       managerID,
		WorkingHoursMon: 8,
		WorkingHoursTue: 8,
		WorkingHoursWed: 8,
		WorkingHoursThu: 8,
		WorkingHoursFri: 8,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// newTask creates a task with its containing project and work package.
func newTask(t *testing.T, db *gorm.DB, name string, loggedHours float64) *models.Task {
	t.Helper()

	project := models.Project{Name: "project for " + name}
	require.NoError(t, db.Create(&project).Error)
	wp := models.WorkPackage{ProjectID: project.ID, Name: "wp for " + name}
	require.NoError(t, db.Create(&wp).Error)

	task := models.Task{WorkPackageID: wp.ID, Name: name, LoggedHours: loggedHours}
	require.NoError(t, db.Create(&task).Error)
	return &task
}

func taskLoggedHours(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()

	var task models.Task
	require.NoError(t, db.First(&task, id).Error)
	return task.LoggedHours
}
