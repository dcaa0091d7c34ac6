package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/repositories/mocks"
)

// ActivityServiceTestSuite is a test suite for the activity service
type ActivityServiceTestSuite struct {
	suite.Suite
	service       ActivityService
	mockUserRepo  *mocks.MockUserRepository
	mockAuditRepo *mocks.MockAuditRepository
	ctx           context.Context
}

// SetupTest sets up the test suite before each test
func (suite *ActivityServiceTestSuite) SetupTest() {
	suite.mockUserRepo = mocks.NewMockUserRepository(suite.T())
	suite.mockAuditRepo = mocks.NewMockAuditRepository(suite.T())
	suite.service = NewActivityService(suite.mockUserRepo, suite.mockAuditRepo)
	suite.ctx = context.Background()
}

// TestRecent_PassesLimit tests that an explicit limit reaches the repository
func (suite *ActivityServiceTestSuite) TestRecent_PassesLimit() {
	entries := []models.AuditLogEntry{
		{ID: 2, Timestamp: time.Now(), Username: "cody", Method: "POST", Path: "/auth/venmo/payment"},
	}
	suite.mockAuditRepo.EXPECT().Recent(suite.ctx, 5).Return(entries, nil)

	got, err := suite.service.Recent(suite.ctx, 5)

	suite.NoError(err)
	suite.Equal(entries, got)
}

// TestRecent_DefaultLimit tests that a zero limit falls back to the default
func (suite *ActivityServiceTestSuite) TestRecent_DefaultLimit() {
	suite.mockAuditRepo.EXPECT().Recent(suite.ctx, DefaultActivityLimit).Return(nil, nil)

	got, err := suite.service.Recent(suite.ctx, 0)

	suite.NoError(err)
	suite.Empty(got)
}

// TestRecent_RepositoryError tests that repository errors are wrapped
func (suite *ActivityServiceTestSuite) TestRecent_RepositoryError() {
	dbErr := errors.New("database is locked")
	suite.mockAuditRepo.EXPECT().Recent(suite.ctx, DefaultActivityLimit).Return(nil, dbErr)

	_, err := suite.service.Recent(suite.ctx, -1)

	suite.ErrorIs(err, dbErr)
	suite.Contains(err.Error(), "failed to load recent activity")
}

// TestUserCount tests counting users
func (suite *ActivityServiceTestSuite) TestUserCount() {
	suite.mockUserRepo.EXPECT().Count(suite.ctx).Return(3, nil)

	count, err := suite.service.UserCount(suite.ctx)

	suite.NoError(err)
	suite.Equal(3, count)
}

// TestUserCount_Error tests that count errors are wrapped
func (suite *ActivityServiceTestSuite) TestUserCount_Error() {
	dbErr := errors.New("no such table: users")
	suite.mockUserRepo.EXPECT().Count(suite.ctx).Return(0, dbErr)

	_, err := suite.service.UserCount(suite.ctx)

	suite.ErrorIs(err, dbErr)
}

func TestActivityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityServiceTestSuite))
}
