package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/pkg/response"
)

// ContextUser is the key for the resolved user in gin context.
const ContextUser = "current_user"

// SessionCookie is the cookie the /auth/verify redirect sets. The JWT
// middleware accepts the credential from this cookie or from an
// Authorization Bearer header; both stay supported until clients unify.
const SessionCookie = "access_token"

// TokenValidator checks a session credential and returns the user id it
// is bound to.
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// UserLoader resolves a user id from a validated session credential.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// JWT returns a middleware that validates the session credential and puts
// the resolved user in the request context.
func JWT(tokens TokenValidator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
			c.Abort()
			return
		}
		userID, err := tokens.Validate(token)
		if err != nil {
			response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
			c.Abort()
			return
		}
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
			c.Abort()
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by the JWT middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
