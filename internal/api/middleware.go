package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/auth"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/user"
)

// LoadRole resolves the authenticated user and stores the role for later handlers.
// Inactive or deleted accounts are rejected even when their token is still valid.
// It MUST be used after auth.AuthRequired middleware.
func LoadRole(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user is inactive"})
			return
		}

		auth.SetUserRole(c, string(u.Role))
		c.Next()
	}
}

// RequireRole lets the request through only for the given roles.
// It MUST be used after LoadRole.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := user.Role(auth.GetUserRole(c))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
	}
}
