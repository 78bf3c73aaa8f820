package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/http/middleware"
)

// VehicleHandlers serves the caller's own vehicles
type VehicleHandlers struct {
	vehicles domain.VehicleRepository
}

func NewVehicleHandlers(vehicles domain.VehicleRepository) *VehicleHandlers {
	return &VehicleHandlers{vehicles: vehicles}
}

// CreateVehicleRequest represents a new vehicle
type CreateVehicleRequest struct {
	PlateNumber string `json:"plate_number" binding:"required,max=32"`
	Make        string `json:"make" binding:"max=64"`
	Model       string `json:"model" binding:"max=64"`
	Color       string `json:"color" binding:"max=32"`
}

func (h *VehicleHandlers) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domain.ErrUnauthorized)
		return
	}

	vehicles, err := h.vehicles.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

func (h *VehicleHandlers) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domain.ErrUnauthorized)
		return
	}

	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vehicle := &domain.Vehicle{
		OwnerID:     userID,
		PlateNumber: req.PlateNumber,
		Make:        req.Make,
		Model:       req.Model,
		Color:       req.Color,
	}
	if err := h.vehicles.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": vehicle})
}

func (h *VehicleHandlers) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domain.ErrUnauthorized)
		return
	}
	id, ok := idParam(c)
	if !ok {
		respondError(c, domain.ErrNotFound)
		return
	}

	vehicle, err := h.vehicles.FindForOwner(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

func (h *VehicleHandlers) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domain.ErrUnauthorized)
		return
	}
	id, ok := idParam(c)
	if !ok {
		respondError(c, domain.ErrNotFound)
		return
	}

	if err := h.vehicles.DeleteForOwner(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
