package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc    domain.AuthService
	magicLinks domain.MagicLinkService
	log        zerolog.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, magicLinks domain.MagicLinkService, log zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc:    authSvc,
		magicLinks: magicLinks,
		log:        log,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role,omitempty"` // defaults to customer
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MagicLinkRequest asks for a passwordless login link
type MagicLinkRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Channel string `json:"channel,omitempty" binding:"omitempty,oneof=email sms"`
}

// MagicLinkVerifyRequest carries the raw token from the link
type MagicLinkVerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest lists the editable profile fields; absent fields are left alone
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "User registered successfully",
			"user":    domain.NewSessionProjection(user),
		},
	})
}

// Login handles email and password login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": authResponse(result)})
}

// RequestMagicLink sends a login link. The answer is the same whether or not
// the email belongs to an account.
func (h *AuthHandlers) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.magicLinks.Request(c.Request.Context(), req.Email, domain.DeliveryChannel(req.Channel))
	if err != nil {
		if errors.Is(err, domain.ErrResendThrottled) || errors.Is(err, domain.ErrInvalidInput) {
			respondError(c, err)
			return
		}
		// Delivery failures are logged but not surfaced
		h.log.Error().Err(err).Str("channel", req.Channel).Msg("magic link request failed")
	}

	c.JSON(http.StatusAccepted, gin.H{
		"data": gin.H{
			"message": "If an account exists for this email, a login link is on its way",
		},
	})
}

// VerifyMagicLink exchanges a magic link token for a session
func (h *AuthHandlers) VerifyMagicLink(c *gin.Context) {
	var req MagicLinkVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.loginWithMagicLink(c, req.Token)
}

// MagicLinkCallback is the target of the emailed link
func (h *AuthHandlers) MagicLinkCallback(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token query parameter is required"})
		return
	}
	h.loginWithMagicLink(c, token)
}

func (h *AuthHandlers) loginWithMagicLink(c *gin.Context, token string) {
	result, err := h.authSvc.LoginWithMagicLink(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": authResponse(result)})
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
		},
	})
}

// Me returns the current user's profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, domain.ErrUnauthorized)
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// UpdateMe changes the current user's profile (requires authentication)
func (h *AuthHandlers) UpdateMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	sessionID, hasSession := middleware.CurrentSessionID(c)
	if !ok || !hasSession {
		respondError(c, domain.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.authSvc.UpdateProfile(c.Request.Context(), sessionID, userID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// Logout handles user logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, ok := middleware.CurrentSessionID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID not found"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

func authResponse(result *domain.AuthResult) gin.H {
	return gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
		"user":          result.User,
	}
}
