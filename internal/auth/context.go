package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserIDKey    = "userID"
	ctxUserEmailKey = "userEmail"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmailKey)
}

// SetIdentity stores the caller identity on the gin context.
func SetIdentity(c *gin.Context, userID, email string) {
	c.Set(ctxUserIDKey, userID)
	c.Set(ctxUserEmailKey, email)
}
