package app

import (
	"net/http"
	"strings"

	"github.com/elibrary/backend/auth"
	"github.com/elibrary/backend/models"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and puts userID, username and
// role into the context. The role comes from the claims so no user lookup
// runs on the hot path.
func AuthRequired(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"status": 401, "message": "unauthorized"})
			return
		}
		claims, err := jwtSvc.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"status": 401, "message": "invalid token"})
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminOnly passes Admin and Super Admin sessions; everyone else gets 403.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != models.RoleAdmin && role != models.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"status": 403, "message": "forbidden"})
			return
		}
		c.Next()
	}
}

// UserID reads the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
