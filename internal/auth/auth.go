package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/veenapanicker/nexus/internal/models"
)

const userContextKey = "currentUser"

// Claims carries the admin identity inside the session token.
type Claims struct {
	UserID string           `json:"user_id"`
	Email  string           `json:"email"`
	Name   string           `json:"name"`
	Role   models.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens. Logins accept any
// credentials; the token only carries identity for display and
// route gating, it is not a security boundary.
type Service struct {
	secret []byte
	expiry time.Duration
	admins AdminLookup
}

// AdminLookup resolves a token subject to a stored admin, when one exists.
type AdminLookup interface {
	Get(id string) (*models.AdminUser, error)
}

func NewService(secret string, expiry time.Duration, admins AdminLookup) *Service {
	return &Service{secret: []byte(secret), expiry: expiry, admins: admins}
}

// GenerateToken signs a session token for the given admin.
func (s *Service) GenerateToken(admin *models.AdminUser) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: admin.ID,
		Email:  admin.Email,
		Name:   admin.Name,
		Role:   admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "nexus",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a session token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// resolveUser maps token claims to an AdminUser. Unknown subjects get a
// transient identity with the role's permission preset, since any
// credentials may log in.
func (s *Service) resolveUser(claims *Claims) *models.AdminUser {
	if s.admins != nil {
		if admin, err := s.admins.Get(claims.UserID); err == nil {
			return admin
		}
	}
	return &models.AdminUser{
		ID:          claims.UserID,
		Name:        claims.Name,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: models.DefaultPermissions(claims.Role),
		Status:      models.AdminStatusActive,
	}
}

// Middleware authenticates requests and places the current user in the
// request context.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		claims, err := s.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, s.resolveUser(claims))
		c.Next()
	}
}

// RequireModule gates a route on the caller's access level for a module.
// Pass edit=true for mutating routes, which need full access.
func RequireModule(module string, edit bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		allowed := user.CanView(module)
		if edit {
			allowed = user.CanEdit(module)
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated admin from the request context.
func CurrentUser(c *gin.Context) *models.AdminUser {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.AdminUser)
	if !ok {
		return nil
	}
	return user
}
