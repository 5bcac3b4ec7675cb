package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetUserID stores the authenticated user's ID for later handlers.
func SetUserID(c *gin.Context, id string) {
	c.Set(userIDKey, id)
}

// SetUserRole stores the authenticated user's role for later handlers.
func SetUserRole(c *gin.Context, role string) {
	c.Set(userRoleKey, role)
}

// GetUserRole returns the role stored by SetUserRole or empty string.
func GetUserRole(c *gin.Context) string {
	if v, ok := c.Get(userRoleKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
