package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/jwt_parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("middleware-secret")

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/provider-only", AuthMiddleware(secret), RequireRole(user_models.RoleProvider), func(c *gin.Context) {
		p, _ := utils.GetPrincipal(c)
		c.String(http.StatusOK, p.UserID.String())
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/provider-only", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	provider := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleProvider}
	customer := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleCustomer}

	good, err := jwt_parse.GenerateToken(secret, provider, time.Hour)
	require.NoError(t, err)
	w := do(r, "Bearer "+good)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, provider.UserID.String(), w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Token abc").Code)

	expired, err := jwt_parse.GenerateToken(secret, provider, -time.Second)
	require.NoError(t, err)
	w = do(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UNAUTHENTICATED"`)

	wrongRole, err := jwt_parse.GenerateToken(secret, customer, time.Hour)
	require.NoError(t, err)
	w = do(r, "Bearer "+wrongRole)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)
}
