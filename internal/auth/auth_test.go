package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veenapanicker/nexus/internal/models"
)

type fakeLookup struct {
	admins map[string]*models.AdminUser
}

func (f *fakeLookup) Get(id string) (*models.AdminUser, error) {
	if admin, ok := f.admins[id]; ok {
		return admin, nil
	}
	return nil, models.NewNotFound("admin", id)
}

func testAdmin() *models.AdminUser {
	return &models.AdminUser{
		ID:          "user-1",
		Name:        "Sarah Chen",
		Email:       "schen@stateuniversity.edu",
		Role:        models.RoleInstitutionalAdmin,
		Permissions: models.DefaultPermissions(models.RoleInstitutionalAdmin),
		Status:      models.AdminStatusActive,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour, nil)

	token, err := svc.GenerateToken(testAdmin())
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "schen@stateuniversity.edu", claims.Email)
	assert.Equal(t, models.RoleInstitutionalAdmin, claims.Role)
	assert.Equal(t, "nexus", claims.Issuer)
}

func TestParseExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Hour, nil)

	token, err := svc.GenerateToken(testAdmin())
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour, nil).GenerateToken(testAdmin())
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour, nil).ParseToken(token)
	require.Error(t, err)
}

func testRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(svc.Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentUser(c))
	})
	r.GET("/licenses", RequireModule(models.ModuleLicenses, false), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/licenses", RequireModule(models.ModuleLicenses, true), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	admin := testAdmin()
	svc := NewService("test-secret", time.Hour, &fakeLookup{
		admins: map[string]*models.AdminUser{admin.ID: admin},
	})
	router := testRouter(svc)

	token, err := svc.GenerateToken(admin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Missing and garbage tokens are both rejected.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireModule(t *testing.T) {
	// Platform admins may view licenses but not mutate them.
	admin := testAdmin()
	admin.Role = models.RolePlatformAdmin
	admin.Permissions = models.DefaultPermissions(models.RolePlatformAdmin)

	svc := NewService("test-secret", time.Hour, &fakeLookup{
		admins: map[string]*models.AdminUser{admin.ID: admin},
	})
	router := testRouter(svc)

	token, err := svc.GenerateToken(admin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/licenses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/licenses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestResolveUnknownSubject(t *testing.T) {
	svc := NewService("test-secret", time.Hour, &fakeLookup{admins: map[string]*models.AdminUser{}})
	router := testRouter(svc)

	transient := &models.AdminUser{
		ID:    "session-guest@example.edu",
		Name:  "guest@example.edu",
		Email: "guest@example.edu",
		Role:  models.RoleInstitutionalAdmin,
	}
	token, err := svc.GenerateToken(transient)
	require.NoError(t, err)

	// The transient identity still gets its role's permission preset.
	req := httptest.NewRequest(http.MethodPost, "/licenses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
