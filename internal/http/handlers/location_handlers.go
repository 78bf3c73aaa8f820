package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/parkease/domain"
)

// defaultRadiusKm applies when lat/lng are given without radius_km
const defaultRadiusKm = 5.0

// LocationHandlers serves the public location catalogue
type LocationHandlers struct {
	locations domain.LocationService
}

func NewLocationHandlers(locations domain.LocationService) *LocationHandlers {
	return &LocationHandlers{locations: locations}
}

// List returns every location, or those within radius_km of lat/lng sorted by distance
func (h *LocationHandlers) List(c *gin.Context) {
	lat, hasLat, err := queryFloat(c, "lat")
	if err != nil {
		badRequest(c, fmt.Errorf("invalid lat: %w", err))
		return
	}
	lng, hasLng, err := queryFloat(c, "lng")
	if err != nil {
		badRequest(c, fmt.Errorf("invalid lng: %w", err))
		return
	}
	radius, hasRadius, err := queryFloat(c, "radius_km")
	if err != nil {
		badRequest(c, fmt.Errorf("invalid radius_km: %w", err))
		return
	}

	if !hasLat && !hasLng {
		locations, err := h.locations.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": locations})
		return
	}
	if hasLat != hasLng {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be given together"})
		return
	}
	if !hasRadius {
		radius = defaultRadiusKm
	}

	nearby, err := h.locations.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": nearby})
}

func (h *LocationHandlers) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondError(c, domain.ErrNotFound)
		return
	}

	location, err := h.locations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": location})
}
