// fixitnow/utils/context.go
package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
)

// PrincipalKey is the gin context key the auth middleware stores the caller under.
const PrincipalKey = "principal"

func SetPrincipal(c *gin.Context, p user_models.Principal) {
	c.Set(PrincipalKey, p)
}

// GetPrincipal returns the authenticated caller of the request.
func GetPrincipal(c *gin.Context) (user_models.Principal, error) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return user_models.Principal{}, apperrors.Unauthenticated("authentication required")
	}
	p, ok := v.(user_models.Principal)
	if !ok {
		return user_models.Principal{}, apperrors.Unauthenticated("authentication required")
	}
	return p, nil
}
