package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/venmo-login/authenticator/openid"
	"github.com/blogem/venmo-login/authenticator/venmo"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/repositories"
	"github.com/blogem/venmo-login/repositories/mocks"
)

func strPtr(s string) *string { return &s }

// UserServiceTestSuite is a test suite for the login verify callbacks
type UserServiceTestSuite struct {
	suite.Suite
	service      UserService
	mockUserRepo *mocks.MockUserRepository
	ctx          context.Context
}

// SetupTest sets up the test suite before each test
func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = mocks.NewMockUserRepository(suite.T())
	suite.service = NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) venmoProfile() *venmo.Profile {
	return &venmo.Profile{
		Provider:    venmo.ProviderName,
		ID:          "145434160922624933",
		Username:    "cody",
		DisplayName: "Cody De La Vara",
		Email:       strPtr("cody@example.com"),
		Balance:     strPtr("12.50"),
		RawJSON:     []byte(`{"id":"145434160922624933"}`),
	}
}

// TestVerifyVenmo_CreatesNewUser tests that a first login creates the user
func (suite *UserServiceTestSuite) TestVerifyVenmo_CreatesNewUser() {
	notFound := fmt.Errorf("venmo user x: %w", repositories.ErrUserNotFound)
	suite.mockUserRepo.EXPECT().FindByProvider(suite.ctx, "venmo", "145434160922624933").Return(nil, notFound)
	suite.mockUserRepo.EXPECT().Create(suite.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Cody De La Vara" &&
			u.Username == "cody" &&
			u.Email == "cody@example.com" &&
			u.Phone == "" &&
			u.Balance == "12.50" &&
			u.ProfileJSON == `{"id":"145434160922624933"}` &&
			u.AccessToken == "at" &&
			u.RefreshToken == "rt"
	})).RunAndReturn(func(_ context.Context, u *models.User) error {
		u.ID = 7
		return nil
	})

	// Act
	user, err := suite.service.VerifyVenmo(suite.ctx, "at", "rt", suite.venmoProfile())

	// Assert
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "7", user.SessionID())
}

// TestVerifyVenmo_UpdatesExistingUser tests that a returning user gets fresh balance and token
func (suite *UserServiceTestSuite) TestVerifyVenmo_UpdatesExistingUser() {
	existing := &models.User{
		ID:           3,
		Provider:     "venmo",
		ProviderID:   "145434160922624933",
		Name:         "Old Name",
		Balance:      "1.00",
		AccessToken:  "old-at",
		RefreshToken: "old-rt",
	}
	suite.mockUserRepo.EXPECT().FindByProvider(suite.ctx, "venmo", "145434160922624933").Return(existing, nil)
	suite.mockUserRepo.EXPECT().Update(suite.ctx, existing).Return(nil)

	// Act
	user, err := suite.service.VerifyVenmo(suite.ctx, "new-at", "new-rt", suite.venmoProfile())

	// Assert
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "3", user.SessionID())
	assert.Equal(suite.T(), "12.50", existing.Balance)
	assert.Equal(suite.T(), "new-at", existing.AccessToken)
	assert.Equal(suite.T(), "old-rt", existing.RefreshToken)
	assert.Equal(suite.T(), "Old Name", existing.Name)
	assert.Equal(suite.T(), `{"id":"145434160922624933"}`, existing.ProfileJSON)
}

// TestVerifyVenmo_RepositoryError tests error handling when the lookup fails
func (suite *UserServiceTestSuite) TestVerifyVenmo_RepositoryError() {
	suite.mockUserRepo.EXPECT().FindByProvider(suite.ctx, "venmo", "145434160922624933").Return(nil, errors.New("database connection failed"))

	// Act
	user, err := suite.service.VerifyVenmo(suite.ctx, "at", "rt", suite.venmoProfile())

	// Assert
	assert.Nil(suite.T(), user)
	assert.ErrorContains(suite.T(), err, "database connection failed")
}

// TestVerifyVenmo_CreateError tests that a failed insert is reported without a user
func (suite *UserServiceTestSuite) TestVerifyVenmo_CreateError() {
	suite.mockUserRepo.EXPECT().FindByProvider(suite.ctx, "venmo", "145434160922624933").Return(nil, repositories.ErrUserNotFound)
	suite.mockUserRepo.EXPECT().Create(suite.ctx, mock.Anything).Return(errors.New("disk full"))

	// Act
	user, err := suite.service.VerifyVenmo(suite.ctx, "at", "rt", suite.venmoProfile())

	// Assert
	assert.Nil(suite.T(), user)
	assert.ErrorContains(suite.T(), err, "failed to create venmo user")
}

// TestVerifyOpenID_CreatesNewUser tests first login through OpenID Connect
func (suite *UserServiceTestSuite) TestVerifyOpenID_CreatesNewUser() {
	suite.mockUserRepo.EXPECT().FindByProvider(suite.ctx, "openid", "sub-1").Return(nil, repositories.ErrUserNotFound)
	suite.mockUserRepo.EXPECT().Create(suite.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice@example.com" && u.Name == "Alice" && u.Provider == "openid"
	})).RunAndReturn(func(_ context.Context, u *models.User) error {
		u.ID = 11
		return nil
	})

	// Act
	user, err := suite.service.VerifyOpenID(suite.ctx, "at", "", &openid.Profile{
		Subject: "sub-1",
		Email:   "alice@example.com",
		Name:    "Alice",
	})

	// Assert
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "11", user.SessionID())
}

// TestVerifyOpenID_MissingSubject tests that an identity without subject is rejected
func (suite *UserServiceTestSuite) TestVerifyOpenID_MissingSubject() {
	user, err := suite.service.VerifyOpenID(suite.ctx, "at", "", &openid.Profile{Email: "a@b.co"})

	assert.Nil(suite.T(), user)
	assert.Error(suite.T(), err)
}

// TestGetUser tests session ID parsing and lookup
func (suite *UserServiceTestSuite) TestGetUser() {
	suite.mockUserRepo.EXPECT().GetByID(suite.ctx, int64(5)).Return(&models.User{ID: 5, Username: "bob"}, nil)

	user, err := suite.service.GetUser(suite.ctx, "5")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "bob", user.Username)

	_, err = suite.service.GetUser(suite.ctx, "abc")
	assert.Error(suite.T(), err)

	_, err = suite.service.GetUser(suite.ctx, "0")
	assert.Error(suite.T(), err)
}

// TestUserServiceTestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
