package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/parkease/domain"
	"gorm.io/gorm"
)

// DBVehicle represents the database model for Vehicle
type DBVehicle struct {
	ID          uint   `gorm:"primaryKey"`
	OwnerID     uint   `gorm:"index;not null"`
	PlateNumber string `gorm:"size:32;not null"`
	Make        string `gorm:"size:64"`
	Model       string `gorm:"size:64"`
	Color       string `gorm:"size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DBVehicle) TableName() string {
	return "vehicles"
}

// VehicleRepositoryImpl implements domain.VehicleRepository using GORM.
// Every read and delete is scoped by owner so a foreign row looks missing.
type VehicleRepositoryImpl struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) domain.VehicleRepository {
	return &VehicleRepositoryImpl{db: db}
}

func (r *VehicleRepositoryImpl) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	row := &DBVehicle{
		OwnerID:     vehicle.OwnerID,
		PlateNumber: strings.ToUpper(strings.TrimSpace(vehicle.PlateNumber)),
		Make:        vehicle.Make,
		Model:       vehicle.Model,
		Color:       vehicle.Color,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*vehicle = vehicleToDomain(row)
	return nil
}

func (r *VehicleRepositoryImpl) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Vehicle, error) {
	var rows []DBVehicle
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	vehicles := make([]domain.Vehicle, 0, len(rows))
	for i := range rows {
		vehicles = append(vehicles, vehicleToDomain(&rows[i]))
	}
	return vehicles, nil
}

func (r *VehicleRepositoryImpl) FindForOwner(ctx context.Context, id, ownerID uint) (*domain.Vehicle, error) {
	var row DBVehicle
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	v := vehicleToDomain(&row)
	return &v, nil
}

func (r *VehicleRepositoryImpl) DeleteForOwner(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&DBVehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func vehicleToDomain(row *DBVehicle) domain.Vehicle {
	return domain.Vehicle{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		PlateNumber: row.PlateNumber,
		Make:        row.Make,
		Model:       row.Model,
		Color:       row.Color,
		CreatedAt:   row.CreatedAt,
	}
}
