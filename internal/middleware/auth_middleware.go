package middleware

import (
	"context"
	"strings"

	"mecfinder/internal/models"
	"mecfinder/internal/utils"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextAdminID   = "admin_id"
	ContextAdminRole = "admin_role"
	ContextClaims    = "claims"
	ContextRequestID = "request_id"
)

// TokenValidator checks an access token, including revocation.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

// AuthRequired validates the bearer token and stores the admin identity on
// the context. Browsers cannot set headers on a websocket handshake, so
// allowQueryToken also accepts ?token=.
func AuthRequired(validator TokenValidator, allowQueryToken bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQueryToken {
			token = c.Query("token")
		}
		if token == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		claims, err := validator.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or expired token")
			return
		}

		c.Set(ContextAdminID, claims.AdminID.Hex())
		c.Set(ContextAdminRole, claims.Role)
		c.Set(ContextClaims, claims)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.AdminIDKey, claims.AdminID))

		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireRoles rejects admins whose role is not listed.
func RequireRoles(roles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.AdminRole(c.GetString(ContextAdminRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.ForbiddenResponse(c)
	}
}

// RequireManager admits SUPER_ADMIN and ADMIN. SUPPORT admins only reach the
// support routes.
func RequireManager() gin.HandlerFunc {
	return RequireRoles(models.AdminRoleSuperAdmin, models.AdminRoleAdmin)
}

func AdminID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(ContextAdminID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func Claims(c *gin.Context) *utils.JWTClaims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*utils.JWTClaims); ok {
			return claims
		}
	}
	return nil
}
