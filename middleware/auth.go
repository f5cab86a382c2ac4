package middleware

import (
	"net/http"
	"strings"

	"civic-report-service/database"
	"civic-report-service/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates admin bearer tokens for protected routes. The
// token is checked before any handler or store access runs.
func AuthMiddleware(auth *database.AdminAuthService, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, http.StatusUnauthorized, "Unauthorized", "", debug)
			c.Abort()
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			utils.Error(c, http.StatusUnauthorized, "Unauthorized", "", debug)
			c.Abort()
			return
		}

		adminID, err := auth.ValidateToken(tokenString)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "Invalid or expired token", "", debug)
			c.Abort()
			return
		}

		c.Set("admin_id", adminID)
		c.Next()
	}
}

// extractToken extracts the token from a Bearer authorization header
func extractToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
