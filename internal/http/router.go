package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/parkease/internal/http/handlers"
	"github.com/you/parkease/internal/http/middleware"
)

// Handlers groups the route handlers mounted by BuildRouter
type Handlers struct {
	Auth      *handlers.AuthHandlers
	Vehicles  *handlers.VehicleHandlers
	Bookings  *handlers.BookingHandlers
	Locations *handlers.LocationHandlers
	Policies  *handlers.PolicyHandlers
}

func BuildRouter(h Handlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/magic-link", h.Auth.RequestMagicLink)
	auth.POST("/magic-link/verify", h.Auth.VerifyMagicLink)
	auth.GET("/magic-link/callback", h.Auth.MagicLinkCallback)
	auth.POST("/refresh", h.Auth.Refresh)

	r.GET("/locations", h.Locations.List)
	r.GET("/locations/:id", h.Locations.Get)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", h.Auth.Me)
	v.PATCH("/auth/me", h.Auth.UpdateMe)
	v.POST("/auth/logout", h.Auth.Logout)

	v.GET("/vehicles", h.Vehicles.List)
	v.POST("/vehicles", h.Vehicles.Create)
	v.GET("/vehicles/:id", h.Vehicles.Get)
	v.DELETE("/vehicles/:id", h.Vehicles.Delete)

	v.GET("/bookings", h.Bookings.List)
	v.GET("/bookings/:id", h.Bookings.Get)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	return r
}
