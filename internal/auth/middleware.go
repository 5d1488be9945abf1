package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

var (
	errMissingHeader = apperror.Unauthorized("missing Authorization header")
	errBadHeader     = apperror.Unauthorized("invalid Authorization header format")
	errBadToken      = apperror.Unauthorized("invalid or expired token")
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errMissingHeader)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(c, errBadHeader)
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			response.Error(c, errBadToken)
			c.Abort()
			return
		}

		SetIdentity(c, claims.UserID, claims.Email)
		c.Next()
	}
}
