package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/parkease/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                 uint    `gorm:"primaryKey"`
	Email              string  `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string  `gorm:"column:password"`
	FirstName          string  `gorm:"size:100"`
	LastName           string  `gorm:"size:100"`
	Phone              string  `gorm:"size:32"`
	AvatarURL          string  `gorm:"size:512"`
	Role               string  `gorm:"index;size:32;not null;default:CUSTOMER"`
	EmailVerified      bool    `gorm:"not null;default:false"`
	MagicLinkTokenHash *string `gorm:"uniqueIndex;size:64"`
	MagicLinkExpiresAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// UpdateProfile implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error) {
	changes := map[string]interface{}{}
	if update.FirstName != nil {
		changes["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		changes["last_name"] = *update.LastName
	}
	if update.Phone != nil {
		changes["phone"] = *update.Phone
	}
	if update.AvatarURL != nil {
		changes["avatar_url"] = *update.AvatarURL
	}

	if len(changes) > 0 {
		res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrUserNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// MarkEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("email_verified", true).Error
}

// SetMagicLinkToken implements domain.UserRepository
func (r *UserRepositoryImpl) SetMagicLinkToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error {
	expires := expiresAt.UTC()
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"magic_link_token_hash": tokenHash,
		"magic_link_expires_at": expires,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ConsumeMagicLinkToken implements domain.UserRepository.
// The lookup only classifies the failure; the clearing UPDATE re-checks hash
// and expiry so that of two racing callers exactly one sees a row affected.
func (r *UserRepositoryImpl) ConsumeMagicLinkToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	if tokenHash == "" {
		return nil, domain.ErrTokenNotFound
	}
	now = now.UTC()

	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("magic_link_token_hash = ?", tokenHash).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}

	if dbUser.MagicLinkExpiresAt == nil || !now.Before(*dbUser.MagicLinkExpiresAt) {
		return nil, domain.ErrTokenExpired
	}

	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ? AND magic_link_token_hash = ? AND magic_link_expires_at > ?", dbUser.ID, tokenHash, now).
		Updates(map[string]interface{}{
			"magic_link_token_hash": nil,
			"magic_link_expires_at": nil,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to consume magic link token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrTokenNotFound
	}

	dbUser.MagicLinkTokenHash = nil
	dbUser.MagicLinkExpiresAt = nil
	return r.dbToDomain(&dbUser)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:                 user.ID,
		Email:              user.Email,
		PasswordHash:       user.PasswordHash,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Phone:              user.Phone,
		AvatarURL:          user.AvatarURL,
		Role:               strings.ToUpper(string(user.Role)),
		EmailVerified:      user.EmailVerified,
		MagicLinkExpiresAt: user.MagicLinkExpiresAt,
	}
	if dbUser.Role == "" {
		dbUser.Role = strings.ToUpper(string(domain.RoleCustomer))
	}
	if user.MagicLinkTokenHash != "" {
		hash := user.MagicLinkTokenHash
		dbUser.MagicLinkTokenHash = &hash
	}
	return dbUser
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	role, err := domain.ParseRole(dbUser.Role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", dbUser.ID, err)
	}
	user := &domain.User{
		ID:                 dbUser.ID,
		Email:              dbUser.Email,
		PasswordHash:       dbUser.PasswordHash,
		FirstName:          dbUser.FirstName,
		LastName:           dbUser.LastName,
		Phone:              dbUser.Phone,
		AvatarURL:          dbUser.AvatarURL,
		Role:               role,
		EmailVerified:      dbUser.EmailVerified,
		MagicLinkExpiresAt: dbUser.MagicLinkExpiresAt,
		CreatedAt:          dbUser.CreatedAt,
		UpdatedAt:          dbUser.UpdatedAt,
	}
	if dbUser.MagicLinkTokenHash != nil {
		user.MagicLinkTokenHash = *dbUser.MagicLinkTokenHash
	}
	return user, nil
}
