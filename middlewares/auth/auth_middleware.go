package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/joy095/fixitnow/utils/jwt_parse"
)

// AuthMiddleware authenticates the bearer token and stores the principal in
// the request context. Missing, malformed, or expired tokens get 401.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := jwt_parse.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnLogger.Warnf("Rejected %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			apperrors.Respond(c, apperrors.Unauthenticated(err.Error()))
			return
		}

		p, err := jwt_parse.ParseToken(secret, token)
		if err != nil {
			logger.WarnLogger.Warnf("Rejected token on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			apperrors.Respond(c, apperrors.Unauthenticated("invalid or expired token"))
			return
		}

		utils.SetPrincipal(c, p)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...user_models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := utils.GetPrincipal(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		for _, r := range roles {
			if p.Is(r) {
				c.Next()
				return
			}
		}
		logger.WarnLogger.Warnf("%s denied on %s %s", p, c.Request.Method, c.FullPath())
		apperrors.Respond(c, apperrors.Forbidden("insufficient role for this operation"))
	}
}
