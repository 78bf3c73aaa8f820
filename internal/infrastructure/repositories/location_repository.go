package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/parkease/domain"
	"gorm.io/gorm"
)

// DBLocation represents the database model for Location
type DBLocation struct {
	ID              uint    `gorm:"primaryKey"`
	OwnerID         uint    `gorm:"index;not null"`
	Name            string  `gorm:"size:255;not null"`
	Address         string  `gorm:"size:512"`
	Latitude        float64 `gorm:"not null"`
	Longitude       float64 `gorm:"not null"`
	HourlyRateCents int64   `gorm:"not null"`
	TotalSpots      int     `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DBLocation) TableName() string {
	return "locations"
}

type LocationRepositoryImpl struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) domain.LocationRepository {
	return &LocationRepositoryImpl{db: db}
}

func (r *LocationRepositoryImpl) List(ctx context.Context) ([]domain.Location, error) {
	var rows []DBLocation
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	locations := make([]domain.Location, 0, len(rows))
	for i := range rows {
		locations = append(locations, locationToDomain(&rows[i]))
	}
	return locations, nil
}

func (r *LocationRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Location, error) {
	var row DBLocation
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	l := locationToDomain(&row)
	return &l, nil
}

func locationToDomain(row *DBLocation) domain.Location {
	return domain.Location{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		Name:            row.Name,
		Address:         row.Address,
		Latitude:        row.Latitude,
		Longitude:       row.Longitude,
		HourlyRateCents: row.HourlyRateCents,
		TotalSpots:      row.TotalSpots,
		CreatedAt:       row.CreatedAt,
	}
}
