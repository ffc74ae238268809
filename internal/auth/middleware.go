package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin    = "admin"
	RoleReseller = "reseller"
)

func Middleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Error(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Error(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Error(c, http.StatusUnauthorized, "Token is empty")
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Error(c, http.StatusUnauthorized, "Token expired")
			default:
				api.Error(c, http.StatusUnauthorized, "Invalid or malformed token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != TokenTypeAccess {
			api.Error(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("account_email", claims.Email)
		c.Set("account_role", claims.Role)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("account_role")
		if !exists {
			api.Error(c, http.StatusUnauthorized, "Account role not found")
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Error(c, http.StatusUnauthorized, "Invalid role type")
			c.Abort()
			return
		}

		if roleStr != requiredRole {
			api.Error(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetAccountID(c *gin.Context) (int, bool) {
	accountID, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}

	id, ok := accountID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}

func GetAccountRole(c *gin.Context) (string, bool) {
	role, exists := c.Get("account_role")
	if !exists {
		return "", false
	}

	roleStr, ok := role.(string)
	if !ok {
		return "", false
	}

	return roleStr, true
}
