package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/parkease/domain"
	"gorm.io/gorm"
)

// DBBooking represents the database model for Booking
type DBBooking struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	LocationID uint      `gorm:"index;not null"`
	VehicleID  uint      `gorm:"index"`
	StartsAt   time.Time `gorm:"not null"`
	EndsAt     time.Time `gorm:"not null"`
	Status     string    `gorm:"size:16;not null;default:pending"`
	TotalCents int64     `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DBBooking) TableName() string {
	return "bookings"
}

type BookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) domain.BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

// ListByUser returns the user's bookings, most recent start first
func (r *BookingRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error) {
	var rows []DBBooking
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("starts_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, bookingToDomain(&rows[i]))
	}
	return bookings, nil
}

func (r *BookingRepositoryImpl) FindForUser(ctx context.Context, id, userID uint) (*domain.Booking, error) {
	var row DBBooking
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	b := bookingToDomain(&row)
	return &b, nil
}

func bookingToDomain(row *DBBooking) domain.Booking {
	return domain.Booking{
		ID:         row.ID,
		UserID:     row.UserID,
		LocationID: row.LocationID,
		VehicleID:  row.VehicleID,
		StartsAt:   row.StartsAt,
		EndsAt:     row.EndsAt,
		Status:     domain.BookingStatus(row.Status),
		TotalCents: row.TotalCents,
		CreatedAt:  row.CreatedAt,
	}
}
