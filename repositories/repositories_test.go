package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/blogem/venmo-login/database"
	"github.com/blogem/venmo-login/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Create a temporary database for testing
	dbPath := filepath.Join(t.TempDir(), "test.db")

	t.Cleanup(func() {
		database.CloseDB()
	})

	// Initialize test database using the actual migration system
	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return database.GetDB()
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// Test Create
	user := &models.User{
		Provider:    "venmo",
		ProviderID:  "145434160922624933",
		Name:        "Cody De La Vara",
		Username:    "cody",
		Email:       "cody@example.com",
		Balance:     "12.50",
		ProfileJSON: `{"id":"145434160922624933"}`,
		AccessToken: "at-1",
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after creation")
	}

	// Test GetByID
	retrieved, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get user by ID: %v", err)
	}

	if retrieved.Username != user.Username {
		t.Errorf("Expected username %s, got %s", user.Username, retrieved.Username)
	}
	if retrieved.Phone != "" {
		t.Errorf("Expected empty phone, got %s", retrieved.Phone)
	}

	// Test FindByProvider
	found, err := repo.FindByProvider(ctx, "venmo", "145434160922624933")
	if err != nil {
		t.Fatalf("Failed to find user by provider: %v", err)
	}

	if found.ID != user.ID {
		t.Errorf("Expected ID %d, got %d", user.ID, found.ID)
	}

	// Test Update
	found.Balance = "3.10"
	found.AccessToken = "at-2"
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	updated, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get updated user: %v", err)
	}

	if updated.Balance != "3.10" || updated.AccessToken != "at-2" {
		t.Errorf("Expected updated balance and token, got %s / %s", updated.Balance, updated.AccessToken)
	}

	// Test Count
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	if _, err := repo.FindByProvider(ctx, "venmo", "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	if err := repo.Update(ctx, &models.User{ID: 999}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound on update, got %v", err)
	}
}

func TestUserRepository_UniqueProviderAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Provider: "venmo", ProviderID: "1", Username: "bob"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	duplicate := &models.User{Provider: "venmo", ProviderID: "1", Username: "bob2"}
	if err := repo.Create(ctx, duplicate); err == nil {
		t.Error("Expected error creating duplicate provider account")
	}

	// Same provider ID under a different provider is a different account
	other := &models.User{Provider: "openid", ProviderID: "1", Username: "bob"}
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("Expected separate provider account to be created, got %v", err)
	}
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	for _, path := range []string{"/auth/venmo/payment", "/logout"} {
		entry := &models.AuditLogEntry{
			Username:  "bob",
			Method:    "POST",
			Path:      path,
			FormData:  "amount=1",
			IPAddress: "127.0.0.1",
		}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Failed to create audit entry: %v", err)
		}
		if entry.ID == 0 {
			t.Error("Expected audit entry ID to be set")
		}
	}

	entries, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list audit entries: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "/logout" {
		t.Errorf("Expected newest entry first, got %s", entries[0].Path)
	}
}
