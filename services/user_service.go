package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogem/venmo-login/authenticator"
	"github.com/blogem/venmo-login/authenticator/openid"
	"github.com/blogem/venmo-login/authenticator/venmo"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/repositories"
)

// UserService interface defines login and account business logic
type UserService interface {
	VerifyVenmo(ctx context.Context, accessToken, refreshToken string, profile *venmo.Profile) (authenticator.User, error)
	VerifyOpenID(ctx context.Context, accessToken, refreshToken string, profile *openid.Profile) (authenticator.User, error)
	GetUser(ctx context.Context, sessionID string) (*models.User, error)
}

// userService implements UserService interface
type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// VerifyVenmo finds or creates the local user for a Venmo profile. Returning
// users get their balance, access token and stored profile refreshed.
func (s *userService) VerifyVenmo(ctx context.Context, accessToken, refreshToken string, profile *venmo.Profile) (authenticator.User, error) {
	if profile == nil {
		return nil, errors.New("venmo profile is required")
	}

	user, err := s.userRepo.FindByProvider(ctx, venmo.ProviderName, profile.ID)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up venmo user: %w", err)
	}

	if user != nil {
		user.Balance = deref(profile.Balance)
		user.AccessToken = accessToken
		user.ProfileJSON = string(profile.RawJSON)

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update venmo user: %w", err)
		}
		return user, nil
	}

	user = &models.User{
		Provider:     venmo.ProviderName,
		ProviderID:   profile.ID,
		Name:         profile.DisplayName,
		Username:     profile.Username,
		Email:        deref(profile.Email),
		Phone:        deref(profile.Phone),
		Balance:      deref(profile.Balance),
		ProfileJSON:  string(profile.RawJSON),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create venmo user: %w", err)
	}

	return user, nil
}

// VerifyOpenID finds or creates the local user for an OpenID Connect identity
func (s *userService) VerifyOpenID(ctx context.Context, accessToken, refreshToken string, profile *openid.Profile) (authenticator.User, error) {
	if profile == nil || profile.Subject == "" {
		return nil, errors.New("openid subject is required")
	}

	user, err := s.userRepo.FindByProvider(ctx, openid.ProviderName, profile.Subject)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up openid user: %w", err)
	}

	if user != nil {
		user.Name = profile.Name
		user.Email = profile.Email
		user.AccessToken = accessToken
		if refreshToken != "" {
			user.RefreshToken = refreshToken
		}

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update openid user: %w", err)
		}
		return user, nil
	}

	username := profile.Username
	if username == "" {
		username = profile.Email
	}

	user = &models.User{
		Provider:     openid.ProviderName,
		ProviderID:   profile.Subject,
		Name:         profile.Name,
		Username:     username,
		Email:        profile.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create openid user: %w", err)
	}

	return user, nil
}

// GetUser loads the user referenced by a session value
func (s *userService) GetUser(ctx context.Context, sessionID string) (*models.User, error) {
	id, err := models.ParseSessionID(sessionID)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid user ID: %q", sessionID)
	}
	return s.userRepo.GetByID(ctx, id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
