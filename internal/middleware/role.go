package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles. It
// must run after JWT. This is the single authorization gate; handlers do
// not re-check roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
			c.Abort()
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			response.Forbidden(c, "Brak uprawnień. Ta akcja wymaga roli Starosty.")
			c.Abort()
			return
		}
		c.Next()
	}
}
