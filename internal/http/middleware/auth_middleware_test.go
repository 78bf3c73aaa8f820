package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/mocks"
)

func testSession(userID uint, role domain.Role) *domain.Session {
	return &domain.Session{
		ID:     "sess-1",
		UserID: userID,
		Projection: domain.SessionProjection{
			ID:    userID,
			Email: "driver@example.com",
			Role:  role,
		},
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		header         string
		setupMocks     func(*mocks.MockTokenService, *mocks.MockSessionRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header required",
		},
		{
			name:           "wrong scheme",
			header:         "Basic abc",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid authorization header format",
		},
		{
			name:           "empty bearer",
			header:         "Bearer ",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid authorization header format",
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			setupMocks: func(tokens *mocks.MockTokenService, _ *mocks.MockSessionRepository) {
				tokens.ValidateAccessTokenFunc = func(string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenExpired
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expired",
		},
		{
			name:   "malformed token",
			header: "Bearer junk",
			setupMocks: func(tokens *mocks.MockTokenService, _ *mocks.MockSessionRepository) {
				tokens.ValidateAccessTokenFunc = func(string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenMalformed
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name:   "token without session",
			header: "Bearer ok",
			setupMocks: func(tokens *mocks.MockTokenService, _ *mocks.MockSessionRepository) {
				tokens.ValidateAccessTokenFunc = func(string) (*domain.TokenClaims, error) {
					return &domain.TokenClaims{UserID: 1, Role: domain.RoleCustomer}, nil
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Session invalid or expired",
		},
		{
			name:           "session logged out",
			header:         "Bearer ok",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Session invalid or expired",
		},
		{
			name:   "session belongs to someone else",
			header: "Bearer ok",
			setupMocks: func(_ *mocks.MockTokenService, sessions *mocks.MockSessionRepository) {
				sessions.FindByIDFunc = func(context.Context, string) (*domain.Session, error) {
					return testSession(2, domain.RoleCustomer), nil
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Session user mismatch",
		},
		{
			name:   "valid token and session",
			header: "Bearer ok",
			setupMocks: func(_ *mocks.MockTokenService, sessions *mocks.MockSessionRepository) {
				sessions.FindByIDFunc = func(_ context.Context, id string) (*domain.Session, error) {
					if id != "mock_session_id" {
						return nil, domain.ErrSessionNotFound
					}
					return testSession(1, domain.RoleOwner), nil
				}
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewMockTokenService()
			sessions := mocks.NewMockSessionRepository()
			if tt.setupMocks != nil {
				tt.setupMocks(tokens, sessions)
			}

			var seen gin.H
			r := gin.New()
			r.GET("/auth/me", NewAuthMW(tokens, sessions).WithJWT(), func(c *gin.Context) {
				userID, _ := CurrentUserID(c)
				sessionID, _ := CurrentSessionID(c)
				projection, _ := CurrentProjection(c)
				seen = gin.H{
					"user_id":    userID,
					"role":       c.GetString(ContextUserRole),
					"session_id": sessionID,
					"email":      projection.Email,
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
				assert.Nil(t, seen, "handler must not run")
				return
			}

			assert.Equal(t, gin.H{
				"user_id":    uint(1),
				"role":       "owner",
				"session_id": "sess-1",
				"email":      "driver@example.com",
			}, seen)
		})
	}
}

func TestContextHelpers_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUserID(c)
	assert.False(t, ok)
	_, ok = CurrentSessionID(c)
	assert.False(t, ok)
	_, ok = CurrentProjection(c)
	assert.False(t, ok)

	c.Set(ContextUserID, "7")
	_, ok = CurrentUserID(c)
	assert.False(t, ok, "string ids are not accepted")
}
