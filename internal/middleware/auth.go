package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the gin context key carrying the authenticated user id.
const ContextUserID = "user_id"

// AuthMiddleware validates dashboard bearer tokens. Session and user
// management live with the identity provider; this only verifies the token
// signature and extracts the subject claim.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			m.reject(c)
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			m.reject(c)
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			m.reject(c)
			return
		}

		c.Set(ContextUserID, subject)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
		TraceID: c.GetString(ContextRequestID),
	})
}

// UserID extracts the authenticated user id set by RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
