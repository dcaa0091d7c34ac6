package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/venmo-login/models"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// UserRepository interface defines user database operations
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, provider, provider_id, name, username, email, phone, balance,
	profile_json, access_token, refresh_token, created_at, updated_at
`

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// FindByProvider retrieves the user linked to a provider account
func (r *userRepository) FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = ? AND provider_id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, provider, providerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s user %s: %w", provider, providerID, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (provider, provider_id, name, username, email, phone, balance,
		                   profile_json, access_token, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		user.Provider,
		user.ProviderID,
		user.Name,
		user.Username,
		nullString(user.Email),
		nullString(user.Phone),
		nullString(user.Balance),
		nullString(user.ProfileJSON),
		nullString(user.AccessToken),
		nullString(user.RefreshToken),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Update updates an existing user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = ?, username = ?, email = ?, phone = ?, balance = ?,
		    profile_json = ?, access_token = ?, refresh_token = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Username,
		nullString(user.Email),
		nullString(user.Phone),
		nullString(user.Balance),
		nullString(user.ProfileJSON),
		nullString(user.AccessToken),
		nullString(user.RefreshToken),
		now,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", user.ID, ErrUserNotFound)
	}

	user.UpdatedAt = now
	return nil
}

// Count returns the number of users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var email, phone, balance, profile, accessToken, refreshToken sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Provider,
		&user.ProviderID,
		&user.Name,
		&user.Username,
		&email,
		&phone,
		&balance,
		&profile,
		&accessToken,
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert NULL values to empty strings
	user.Email = email.String
	user.Phone = phone.String
	user.Balance = balance.String
	user.ProfileJSON = profile.String
	user.AccessToken = accessToken.String
	user.RefreshToken = refreshToken.String

	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
