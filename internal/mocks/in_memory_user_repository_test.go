package mocks_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/mocks"
)

func TestInMemoryUserRepository_ConsumeIsCompareAndClear(t *testing.T) {
	repo := mocks.NewInMemoryUserRepository()
	ctx := context.Background()
	user := &domain.User{Email: "driver@example.com", Role: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, user))

	now := time.Now()
	require.NoError(t, repo.SetMagicLinkToken(ctx, user.ID, "h", now.Add(time.Hour)))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeMagicLinkToken(ctx, "h", now); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestInMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := mocks.NewInMemoryUserRepository()
	ctx := context.Background()
	user := &domain.User{Email: "driver@example.com", Role: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	found.Email = "mutated@example.com"

	again, err := repo.FindByEmail(ctx, "driver@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Email: "driver@example.com"}), domain.ErrUserAlreadyExists)
}
