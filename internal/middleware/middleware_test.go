package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"regtrack/internal/domain"
	"regtrack/internal/middleware"
	"regtrack/internal/service"
	"regtrack/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	tenantID := uuid.New()
	userID := uuid.New()
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{},
		TenantID:         tenantID,
		UserID:           userID,
		Email:            "ra@pharma.test",
		Role:             domain.RoleManager,
	}

	mockAuth.On("ValidateToken", "valid-token").Return(claims, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		tid, _ := middleware.GetTenantID(c)
		uid, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": tid,
			"user_id":   uid,
			"role":      middleware.GetRole(c),
		})
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, tenantID.String(), resp["tenant_id"])
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, "manager", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer   "},
		{"invalid token", "Bearer expired-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "expired-token").Return(nil, domain.ErrUnauthorized)

			r := gin.New()
			r.Use(middleware.AuthMiddleware(mockAuth))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{"admin", http.StatusOK},
		{"manager", http.StatusOK},
		{"member", http.StatusOK},
		{"viewer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(middleware.ContextKeyRole, tt.role)
				}
				c.Next()
			})
			r.POST("/registrations", middleware.RequireRole(domain.WriterRoles...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req, _ := http.NewRequest(http.MethodPost, "/registrations", http.NoBody)
			w := serve(r, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequirePlatformAdmin(t *testing.T) {
	tests := []struct {
		name       string
		claims     *service.Claims
		wantStatus int
	}{
		{"no claims", nil, http.StatusForbidden},
		{"company admin", &service.Claims{TenantID: uuid.New(), Role: domain.RoleAdmin}, http.StatusForbidden},
		{"platform admin", &service.Claims{TenantID: uuid.New(), Role: domain.RoleAdmin, PlatformAdmin: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.claims != nil {
					c.Set(middleware.ContextKeyClaims, tt.claims)
				}
				c.Next()
			})
			r.GET("/admin/companies", middleware.RequirePlatformAdmin(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req, _ := http.NewRequest(http.MethodGet, "/admin/companies", http.NoBody)
			assert.Equal(t, tt.wantStatus, serve(r, req).Code)
		})
	}
}

func TestAuthMiddleware_LowercaseSchemeAndLoggerFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mockAuth := new(mocks.MockAuthService)
	tenantID, userID := uuid.New(), uuid.New()
	mockAuth.On("ValidateToken", "tok").Return(&service.Claims{TenantID: tenantID, UserID: userID, Role: domain.RoleViewer}, nil)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(zap.New(core)), middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "bearer tok")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, userID.String(), fields["user_id"])
}

func TestTenantGuard(t *testing.T) {
	r := gin.New()
	r.GET("/open", middleware.TenantGuard(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/scoped", func(c *gin.Context) {
		c.Set(middleware.ContextKeyTenantID, uuid.New())
		c.Next()
	}, middleware.TenantGuard(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/nil", func(c *gin.Context) {
		c.Set(middleware.ContextKeyTenantID, uuid.Nil)
		c.Next()
	}, middleware.TenantGuard(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/open", http.NoBody)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req, _ = http.NewRequest(http.MethodGet, "/scoped", http.NoBody)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req, _ = http.NewRequest(http.MethodGet, "/nil", http.NoBody)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://app.regtrack.test"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://app.regtrack.test")
	w := serve(r, req)
	assert.Equal(t, "https://app.regtrack.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "https://app.regtrack.test")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		middleware.GetLogger(c).Info("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req, _ := http.NewRequest(http.MethodGet, "/ok", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	w := serve(r, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	req, _ = http.NewRequest(http.MethodGet, "/missing", http.NoBody)
	w = serve(r, req)
	generated := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "inside handler", entries[0].Message)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, generated, entries[2].ContextMap()["request_id"])
}

func TestGetLogger_OutsideRequest(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, middleware.GetLogger(c))
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := gin.New()
	r.Use(middleware.Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req, _ := http.NewRequest(http.MethodGet, "/panic", http.NoBody)
	w := serve(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
