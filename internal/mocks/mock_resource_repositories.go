package mocks

import (
	"context"

	"github.com/you/parkease/domain"
)

// MockVehicleRepository implements domain.VehicleRepository interface for testing
type MockVehicleRepository struct {
	CreateFunc         func(ctx context.Context, vehicle *domain.Vehicle) error
	ListByOwnerFunc    func(ctx context.Context, ownerID uint) ([]domain.Vehicle, error)
	FindForOwnerFunc   func(ctx context.Context, id, ownerID uint) (*domain.Vehicle, error)
	DeleteForOwnerFunc func(ctx context.Context, id, ownerID uint) error
}

func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{}
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, vehicle)
	}
	vehicle.ID = 1
	return nil
}

func (m *MockVehicleRepository) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Vehicle, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return []domain.Vehicle{}, nil
}

func (m *MockVehicleRepository) FindForOwner(ctx context.Context, id, ownerID uint) (*domain.Vehicle, error) {
	if m.FindForOwnerFunc != nil {
		return m.FindForOwnerFunc(ctx, id, ownerID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockVehicleRepository) DeleteForOwner(ctx context.Context, id, ownerID uint) error {
	if m.DeleteForOwnerFunc != nil {
		return m.DeleteForOwnerFunc(ctx, id, ownerID)
	}
	return domain.ErrNotFound
}

// MockBookingRepository implements domain.BookingRepository interface for testing
type MockBookingRepository struct {
	ListByUserFunc  func(ctx context.Context, userID uint) ([]domain.Booking, error)
	FindForUserFunc func(ctx context.Context, id, userID uint) (*domain.Booking, error)
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{}
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []domain.Booking{}, nil
}

func (m *MockBookingRepository) FindForUser(ctx context.Context, id, userID uint) (*domain.Booking, error) {
	if m.FindForUserFunc != nil {
		return m.FindForUserFunc(ctx, id, userID)
	}
	return nil, domain.ErrNotFound
}

// MockLocationRepository implements domain.LocationRepository interface for testing
type MockLocationRepository struct {
	ListFunc     func(ctx context.Context) ([]domain.Location, error)
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Location, error)
}

func NewMockLocationRepository() *MockLocationRepository {
	return &MockLocationRepository{}
}

func (m *MockLocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Location{}, nil
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uint) (*domain.Location, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// MockLocationService implements domain.LocationService interface for testing
type MockLocationService struct {
	ListFunc   func(ctx context.Context) ([]domain.Location, error)
	GetFunc    func(ctx context.Context, id uint) (*domain.Location, error)
	NearbyFunc func(ctx context.Context, lat, lng, radiusKm float64) ([]domain.NearbyLocation, error)
}

func NewMockLocationService() *MockLocationService {
	return &MockLocationService{}
}

func (m *MockLocationService) List(ctx context.Context) ([]domain.Location, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Location{}, nil
}

func (m *MockLocationService) Get(ctx context.Context, id uint) (*domain.Location, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockLocationService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.NearbyLocation, error) {
	if m.NearbyFunc != nil {
		return m.NearbyFunc(ctx, lat, lng, radiusKm)
	}
	return []domain.NearbyLocation{}, nil
}

// Compile-time interface compliance verification
var (
	_ domain.VehicleRepository  = (*MockVehicleRepository)(nil)
	_ domain.BookingRepository  = (*MockBookingRepository)(nil)
	_ domain.LocationRepository = (*MockLocationRepository)(nil)
	_ domain.LocationService    = (*MockLocationService)(nil)
)
