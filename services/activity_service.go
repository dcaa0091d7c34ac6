package services

import (
	"context"
	"fmt"

	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/repositories"
)

// DefaultActivityLimit caps how many audit entries the activity page shows
const DefaultActivityLimit = 20

// ActivityService reports what the app has been doing
type ActivityService interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
	UserCount(ctx context.Context) (int, error)
}

type activityService struct {
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditRepository
}

// NewActivityService creates a new activity service
func NewActivityService(userRepo repositories.UserRepository, auditRepo repositories.AuditRepository) ActivityService {
	return &activityService{userRepo: userRepo, auditRepo: auditRepo}
}

// Recent returns the newest audit entries; a non-positive limit means DefaultActivityLimit
func (s *activityService) Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	entries, err := s.auditRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	return entries, nil
}

// UserCount returns how many users have logged in at least once
func (s *activityService) UserCount(ctx context.Context) (int, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
