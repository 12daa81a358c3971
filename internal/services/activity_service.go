package services

import (
	"fmt"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/utils"
	"go.uber.org/zap"
)

// ClientInfo describes where a request came from.
type ClientInfo struct {
	IP     string
	Device string
}

// ActivityService records and lists the per-user audit log.
type ActivityService struct {
	repo   repository.ActivityRepository
	logger *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger.Named("activity"),
	}
}

// Record appends an entry. A failed write is logged and does not fail the
// action being audited.
func (s *ActivityService) Record(userID uint64, action models.ActivityAction, client ClientInfo) {
	activity := &models.UserActivity{
		UserID:    userID,
		Action:    action,
		IPAddress: client.IP,
		Device:    client.Device,
	}
	if err := s.repo.Create(activity); err != nil {
		s.logger.Warn("failed to record user activity",
			zap.Uint64("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// List returns a page of the user's activity, newest first.
func (s *ActivityService) List(userID uint64, params utils.PaginationParams) ([]models.UserActivity, int64, error) {
	activities, total, err := s.repo.ListByUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, total, nil
}
