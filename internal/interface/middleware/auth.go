package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

const CtxUserIDKey = "userID"

// accessToken reads the bearer header first, then the access_token cookie
func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	token, _ := c.Cookie(helpers.AccessCookie)
	return token
}

// Auth validates the access token and requires that its session id is the
// live session for the user, so logout and refresh revoke older tokens.
// It sets userID, userName, and userEmail in the Gin context on success.
func Auth(sessions repository.SessionRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || sess.SessionID != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("userName", sess.Name)
		c.Set("userEmail", sess.Email)
		c.Next()
	}
}
