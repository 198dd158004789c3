package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/perfhub/performance-hub-api/internal/auth"
	"github.com/perfhub/performance-hub-api/internal/constants"
	"github.com/perfhub/performance-hub-api/internal/database"
	apierrors "github.com/perfhub/performance-hub-api/internal/errors"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/permissions"
)

// RequireAuth validates the bearer token, loads the subject user and its
// linked team member, and stores the resulting principal in the context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "Authorization token is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		email, err := auth.VerifyToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().Where("email = ?", email).First(&user).Error; err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		if !user.IsActive {
			apierrors.BadRequest(c, "Inactive user")
			c.Abort()
			return
		}

		principal := permissions.Principal{User: user}
		var member models.TeamMember
		if err := database.GetDB().Where("user_id = ?", user.ID).First(&member).Error; err == nil {
			principal.Member = &member
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(c *gin.Context) (permissions.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return permissions.Principal{}, false
	}

	principal, ok := value.(permissions.Principal)
	return principal, ok
}
