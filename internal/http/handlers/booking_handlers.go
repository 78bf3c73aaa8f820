package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/http/middleware"
)

// BookingHandlers serves the caller's own bookings
type BookingHandlers struct {
	bookings domain.BookingRepository
}

func NewBookingHandlers(bookings domain.BookingRepository) *BookingHandlers {
	return &BookingHandlers{bookings: bookings}
}

func (h *BookingHandlers) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domain.ErrUnauthorized)
		return
	}

	bookings, err := h.bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

func (h *BookingHandlers) Get(c *gin.Context) {
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

	booking, err := h.bookings.FindForUser(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": booking})
}
