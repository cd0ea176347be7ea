package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"timetracker/models"
)

// CanApprove reports whether the actor may approve or unapprove the target
// user's timesheets and leave requests: admins always may, otherwise only
// the target's direct manager.
func CanApprove(actor, target *models.User) bool {
	if actor.IsAdmin() {
		return true
	}
	return target.ManagerID != nil && *target.ManagerID == actor.ID
}

type LeaveService struct {
	db *gorm.DB
}

func NewLeaveService(db *gorm.DB) *LeaveService {
	return &LeaveService{db: db}
}

// RequestLeave files a new pending leave request for the user.
func (s *LeaveService) RequestLeave(user *models.User, start, end time.Time, reason string) (*models.LeaveRequest, error) {
	leave := models.LeaveRequest{
		UserID:    user.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    models.LeavePending,
	}
	if err := s.db.Create(&leave).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

// DecideLeave approves or rejects a pending request. The decision is gated
// on the approver being the requester's line manager (or an admin) and
// records the reviewer.
func (s *LeaveService) DecideLeave(requestID uint, approver *models.User, approve bool) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&leave, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var target models.User
		if err := tx.First(&target, leave.UserID).Error; err != nil {
			return err
		}
		if !CanApprove(approver, &target) {
			return ErrLeaveNotLineManager
		}

		if approve {
			leave.Status = models.LeaveApproved
		} else {
			leave.Status = models.LeaveRejected
		}
		leave.ReviewerID = &approver.ID
		return tx.Save(&leave).Error
	})
	if err != nil {
		return nil, err
	}
	return &leave, nil
}
