package repositories

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/parkease/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&DBUser{}, &DBVehicle{}, &DBLocation{}, &DBBooking{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, repo domain.UserRepository, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        email,
		PasswordHash: "hashed_password",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         domain.RoleCustomer,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepositoryImpl_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, repo, "driver@example.com")
	assert.NotZero(t, user.ID)

	var row DBUser
	require.NoError(t, db.First(&row, user.ID).Error)
	assert.Equal(t, "CUSTOMER", row.Role)
	assert.Nil(t, row.MagicLinkTokenHash)

	err := repo.Create(context.Background(), &domain.User{Email: "driver@example.com", Role: domain.RoleOwner})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserRepositoryImpl_FindByEmail(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(db *gorm.DB)
		email         string
		expectedRole  domain.Role
		expectedError error
	}{
		{
			name: "upper case role column is normalized",
			setupData: func(db *gorm.DB) {
				db.Create(&DBUser{Email: "owner@example.com", PasswordHash: "x", Role: "OWNER"})
			},
			email:        "owner@example.com",
			expectedRole: domain.RoleOwner,
		},
		{
			name: "lower case role column is accepted",
			setupData: func(db *gorm.DB) {
				db.Create(&DBUser{Email: "guard@example.com", PasswordHash: "x", Role: "watchman"})
			},
			email:        "guard@example.com",
			expectedRole: domain.RoleWatchman,
		},
		{
			name:          "email not found",
			setupData:     func(db *gorm.DB) {},
			email:         "missing@example.com",
			expectedError: domain.ErrUserNotFound,
		},
		{
			name: "unknown role column is rejected",
			setupData: func(db *gorm.DB) {
				db.Create(&DBUser{Email: "odd@example.com", PasswordHash: "x", Role: "SUPERUSER"})
			},
			email:         "odd@example.com",
			expectedError: domain.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tt.setupData(db)
			repo := NewUserRepository(db)

			user, err := repo.FindByEmail(context.Background(), tt.email)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, user.Email)
			assert.Equal(t, tt.expectedRole, user.Role)
		})
	}
}

func TestUserRepositoryImpl_UpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, repo, "driver@example.com")

	phone := "+15550001111"
	updated, err := repo.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Ada", updated.FirstName, "untouched fields are preserved")

	_, err = repo.UpdateProfile(ctx, 9999, domain.ProfileUpdate{Phone: &phone})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryImpl_MarkEmailVerified(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, repo, "driver@example.com")

	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
}

func TestUserRepositoryImpl_ConsumeMagicLinkToken(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(time.Hour)

	tests := []struct {
		name          string
		hash          string
		now           time.Time
		consumeTwice  bool
		expectedError error
	}{
		{
			name: "valid token within lifetime",
			hash: "hash-a",
			now:  issuedAt.Add(30 * time.Minute),
		},
		{
			name:          "replayed token is not found",
			hash:          "hash-a",
			now:           issuedAt.Add(30 * time.Minute),
			consumeTwice:  true,
			expectedError: domain.ErrTokenNotFound,
		},
		{
			name:          "token at exact expiry is expired",
			hash:          "hash-a",
			now:           expiresAt,
			expectedError: domain.ErrTokenExpired,
		},
		{
			name:          "token after expiry is expired",
			hash:          "hash-a",
			now:           issuedAt.Add(61 * time.Minute),
			expectedError: domain.ErrTokenExpired,
		},
		{
			name:          "unknown hash",
			hash:          "hash-b",
			now:           issuedAt.Add(time.Minute),
			expectedError: domain.ErrTokenNotFound,
		},
		{
			name:          "empty hash",
			hash:          "",
			now:           issuedAt.Add(time.Minute),
			expectedError: domain.ErrTokenNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)
			ctx := context.Background()
			user := createTestUser(t, repo, "driver@example.com")
			require.NoError(t, repo.SetMagicLinkToken(ctx, user.ID, "hash-a", expiresAt))

			if tt.consumeTwice {
				_, err := repo.ConsumeMagicLinkToken(ctx, tt.hash, tt.now)
				require.NoError(t, err)
			}

			consumed, err := repo.ConsumeMagicLinkToken(ctx, tt.hash, tt.now)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, consumed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, consumed.ID)
			assert.Empty(t, consumed.MagicLinkTokenHash)

			stored, err := repo.FindByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Empty(t, stored.MagicLinkTokenHash)
			assert.Nil(t, stored.MagicLinkExpiresAt)
		})
	}
}

func TestUserRepositoryImpl_SetMagicLinkTokenReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, repo, "driver@example.com")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SetMagicLinkToken(ctx, user.ID, "first", now.Add(time.Hour)))
	require.NoError(t, repo.SetMagicLinkToken(ctx, user.ID, "second", now.Add(time.Hour)))

	_, err := repo.ConsumeMagicLinkToken(ctx, "first", now)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	consumed, err := repo.ConsumeMagicLinkToken(ctx, "second", now)
	require.NoError(t, err)
	assert.Equal(t, user.ID, consumed.ID)

	err = repo.SetMagicLinkToken(ctx, 4242, "third", now.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryImpl_ConcurrentConsumeHasOneWinner(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "users.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&DBUser{}))

	repo := NewUserRepository(db)
	user := createTestUser(t, repo, "driver@example.com")
	ctx := context.Background()

	const rounds, workers = 10, 16
	for round := 0; round < rounds; round++ {
		hash := fmt.Sprintf("%064x", round+1)
		require.NoError(t, repo.SetMagicLinkToken(ctx, user.ID, hash, time.Now().Add(time.Hour)))

		var wins, misses, failures int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := repo.ConsumeMagicLinkToken(ctx, hash, time.Now())
				switch {
				case err == nil:
					atomic.AddInt32(&wins, 1)
				case errors.Is(err, domain.ErrTokenNotFound):
					atomic.AddInt32(&misses, 1)
				default:
					atomic.AddInt32(&failures, 1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), wins, "round %d", round)
		require.Equal(t, int32(workers-1), misses, "round %d", round)
		require.Zero(t, failures, "round %d", round)
	}
}
