package services

import "timetracker/models"

// ApplyTaskLoggedHoursEdit reconciles task logged-hour totals for a
// timesheet entry mutation.
//
// Rules:
//   - same task: apply only the delta (new - old)
//   - reassigned task: subtract old hours from the old task and add new
//     hours to the new task, each independently
//   - task link added or removed: update only the task that is present
//
// Subtractions are clamped at zero so a total never goes negative.
// Persisting the mutated tasks is the caller's responsibility.
func ApplyTaskLoggedHoursEdit(oldTask, newTask *models.Task, oldHours, newHours float64) {
	if oldTask != nil && newTask != nil && oldTask.ID == newTask.ID {
		delta := newHours - oldHours
		oldTask.LoggedHours = max(oldTask.LoggedHours+delta, 0)
		return
	}

	if oldTask != nil {
		oldTask.LoggedHours = max(oldTask.LoggedHours-oldHours, 0)
	}
	if newTask != nil {
		newTask.LoggedHours += newHours
	}
}
