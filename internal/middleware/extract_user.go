package middleware

import (
	"markpedia-os/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// ExtractUserID re-publishes the authenticated user id as user_id_validated,
// the key handlers fall back to when a token carries no employee id.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			abortWithError(c, apperror.ErrUnauthorized, nil)
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			abortWithError(c, apperror.ErrInvalidToken, "user_id has an invalid format")
			return
		}

		c.Set("user_id_validated", userIDStr)
		c.Next()
	}
}
