package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/you/parkease/domain"
)

const earthRadiusKm = 6371.0

// LocationServiceImpl implements domain.LocationService
type LocationServiceImpl struct {
	repo domain.LocationRepository
}

func NewLocationService(repo domain.LocationRepository) domain.LocationService {
	return &LocationServiceImpl{repo: repo}
}

func (s *LocationServiceImpl) List(ctx context.Context) ([]domain.Location, error) {
	return s.repo.List(ctx)
}

func (s *LocationServiceImpl) Get(ctx context.Context, id uint) (*domain.Location, error) {
	return s.repo.FindByID(ctx, id)
}

// Nearby returns locations within radiusKm of the point, closest first
func (s *LocationServiceImpl) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.NearbyLocation, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", domain.ErrInvalidInput)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]domain.NearbyLocation, 0, len(all))
	for _, loc := range all {
		d := HaversineKm(lat, lng, loc.Latitude, loc.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, domain.NearbyLocation{Location: loc, DistanceKm: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// HaversineKm is the great-circle distance between two points in kilometres
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
