package middleware

import (
	"net/http"
	"strings"

	"hotel-backoffice/internal/apperrors"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is where Authenticate stores the resolved account for
// downstream handlers.
const CurrentUserKey = "current_user"

// Authenticate resolves the bearer token to a live, active account on every
// request. Resolving against the database (not just the token claims) means a
// deleted or deactivated account loses access immediately, even with a valid
// unexpired token in hand.
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			c.Abort()
			return
		}

		user, err := authService.Authenticate(tokenString)
		if err != nil {
			appErr := apperrors.From(err)
			c.JSON(appErr.Kind.HTTPStatus(), gin.H{
				"error": appErr.Message,
			})
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set("user_id", user.ID.String())
		c.Set("user_role", string(user.Role))

		c.Next()
	}
}

// RequireRoles is the per-route allow-list, applied after Authenticate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not have permission to perform this action",
		})
		c.Abort()
	}
}

// CurrentUser fetches the account Authenticate stored on the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
