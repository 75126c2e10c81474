package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/propmaint/backend/internal/models"
)

// SessionCookie carries the signed session of a logged-in panel user.
const SessionCookie = "propmaint_session"

// RoleKey is the gin context key holding the caller's models.Role.
const RoleKey = "user_role"

type SessionClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SignSession issues an HS256 session token for role valid for ttl.
func SignSession(secret []byte, role models.Role, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	return signed, expiresAt, err
}

// ParseSession validates a session token and returns its role.
func ParseSession(secret []byte, tokenString string) (models.Role, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	role, err := models.ParseRole(string(claims.Role))
	if err != nil {
		return "", errors.Join(jwt.ErrTokenInvalidClaims, err)
	}
	return role, nil
}

// AuthMiddleware admits requests carrying a valid session, either as the
// session cookie or as a Bearer token, and stores the role under RoleKey.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "No autenticado"})
				c.Abort()
				return
			}
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		role, err := ParseSession(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesión no válida"})
			c.Abort()
			return
		}

		c.Set(RoleKey, role)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Acceso denegado"})
		c.Abort()
	}
}

// CurrentRole returns the role set by AuthMiddleware, or "".
func CurrentRole(c *gin.Context) models.Role {
	if v, ok := c.Get(RoleKey); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}
