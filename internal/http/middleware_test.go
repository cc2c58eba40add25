package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bricks-api/internal/domain"
	"bricks-api/internal/service"
)

func newAuthTestRouter(t *testing.T, tokens *service.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("/", AuthMiddleware(tokens))
	protected.GET("/me", func(c *gin.Context) {
		claims, _ := GetAuthClaims(c)
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID})
	})
	protected.GET("/admin", RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func issueAccess(t *testing.T, tokens *service.TokenService, role domain.UserRole) string {
	t.Helper()
	pair, err := tokens.IssuePair(service.TokenPayload{
		UserID: "u1",
		Email:  "user@example.com",
		Roles:  []domain.UserRole{role},
	})
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	return pair.AccessToken
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, time.Hour, nil)
	router := newAuthTestRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: issueAccess(t, tokens, domain.RoleClient)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, time.Hour, nil)
	router := newAuthTestRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, domain.RoleClient))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, time.Hour, nil)
	router := newAuthTestRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RefreshTokenRejectedAsAccess(t *testing.T) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, time.Hour, nil)
	router := newAuthTestRouter(t, tokens)

	pair, err := tokens.IssuePair(service.TokenPayload{UserID: "u1", Email: "user@example.com", Roles: []domain.UserRole{domain.RoleClient}})
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token must not pass as access, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, time.Hour, nil)
	router := newAuthTestRouter(t, tokens)

	cases := []struct {
		role domain.UserRole
		want int
	}{
		{domain.RoleClient, http.StatusForbidden},
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleSuperAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, tc.role))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("role %s: expected %d, got %d", tc.role, tc.want, rec.Code)
		}
	}
}
