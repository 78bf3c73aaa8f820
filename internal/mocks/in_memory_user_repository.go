package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/parkease/domain"
)

// InMemoryUserRepository is a working domain.UserRepository kept in a map.
// All access goes through one mutex so token consumption is compare-and-clear.
type InMemoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*domain.User
}

// NewInMemoryUserRepository creates an empty store
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{nextID: 1, users: make(map[uint]*domain.User)}
}

// Create stores a copy of user and assigns its ID
func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *InMemoryUserRepository) UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *InMemoryUserRepository) MarkEmailVerified(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerified = true
	return nil
}

func (r *InMemoryUserRepository) SetMagicLinkToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.MagicLinkTokenHash = tokenHash
	u.MagicLinkExpiresAt = &expiresAt
	return nil
}

func (r *InMemoryUserRepository) ConsumeMagicLinkToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tokenHash == "" {
		return nil, domain.ErrTokenNotFound
	}
	for _, u := range r.users {
		if u.MagicLinkTokenHash != tokenHash {
			continue
		}
		if u.MagicLinkExpiresAt == nil || !now.Before(*u.MagicLinkExpiresAt) {
			return nil, domain.ErrTokenExpired
		}
		u.MagicLinkTokenHash = ""
		u.MagicLinkExpiresAt = nil
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrTokenNotFound
}

var _ domain.UserRepository = (*InMemoryUserRepository)(nil)
