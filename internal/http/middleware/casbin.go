package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/infrastructure/auth"
)

// CasbinMW authorizes (role, path, method) against the policy store
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
	log      zerolog.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer, log zerolog.Logger) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, log: log}
}

// Enforce returns the casbin authorization middleware
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		tokenUserID, userExists := currentUserIDString(c)
		role := c.GetString(ContextUserRole)
		if !userExists || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID or role not found in token"})
			return
		}

		headerUserID := c.GetHeader("x-user-id")
		if headerUserID != "" && headerUserID != tokenUserID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Header x-user-id does not match token user ID"})
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.enforcer.Enforce(auth.Subject(role), path, method)
		if err != nil {
			mw.log.Error().Err(err).Str("path", path).Str("method", method).Msg("authorization check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if !allowed {
			mw.log.Debug().Str("role", role).Str("path", path).Str("method", method).Msg("access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}

		c.Next()
	})
}
