package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/parkease/domain"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID     = "user_id"
	ContextUserRole   = "user_role"
	ContextSessionID  = "session_id"
	ContextProjection = "session"
)

// The role comes from the stored projection, not the token, so a role change
// recorded on the session applies to tokens issued before it.
func setIdentity(c *gin.Context, session *domain.Session) {
	c.Set(ContextUserID, session.UserID)
	c.Set(ContextUserRole, session.Projection.Role.String())
	c.Set(ContextSessionID, session.ID)
	c.Set(ContextProjection, session.Projection)
}

// CurrentUserID returns the authenticated user id; owned resources are scoped by it
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentSessionID returns the session id bound to the access token
func CurrentSessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// CurrentProjection returns the session projection for the request
func CurrentProjection(c *gin.Context) (domain.SessionProjection, bool) {
	v, ok := c.Get(ContextProjection)
	if !ok {
		return domain.SessionProjection{}, false
	}
	p, ok := v.(domain.SessionProjection)
	return p, ok
}

func currentUserIDString(c *gin.Context) (string, bool) {
	id, ok := CurrentUserID(c)
	if !ok {
		return "", false
	}
	return strconv.FormatUint(uint64(id), 10), true
}
