package middleware

import (
	"errors"
	"fmt"
	"strings"

	"markpedia-os/internal/shared/apperror"
	"markpedia-os/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func abortWithError(c *gin.Context, err *apperror.AppError, details any) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, details)
	c.Abort()
}

// AuthMiddleware validates the HS256 access token from the Authorization
// header or the access_token cookie and copies its claims into the gin
// context: user_id, employee_id, company_id and role.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWithError(c, apperror.ErrTokenMissing, nil)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, apperror.ErrTokenExpired, nil)
				return
			}
			abortWithError(c, apperror.ErrInvalidToken, nil)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWithError(c, apperror.ErrInvalidToken, "invalid token claims")
			return
		}

		required := map[string]string{}
		for _, name := range []string{"user_id", "company_id", "employee_id"} {
			v, _ := claims[name].(string)
			if v == "" {
				abortWithError(c, apperror.ErrInvalidToken, name+" not found in token")
				return
			}
			required[name] = v
		}
		role, _ := claims["role"].(string)

		c.Set("user_id", required["user_id"])
		c.Set("employee_id", required["employee_id"])
		c.Set("company_id", required["company_id"])
		c.Set("role", strings.ToUpper(strings.TrimSpace(role)))

		c.Next()
	}
}
