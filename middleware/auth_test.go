package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-api/middleware"
	"storefront-api/models"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID, role string, expire time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expire).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

// adminRouter mounts a delete route behind Auth + admin role and counts
// how often the handler actually runs.
func adminRouter(mutations *int) *gin.Engine {
	r := gin.New()
	r.DELETE("/products/:id",
		middleware.Auth(testSecret),
		middleware.RequireRole(models.RoleAdmin),
		func(c *gin.Context) {
			*mutations++
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	return r
}

func TestAuth_MissingToken(t *testing.T) {
	var mutations int
	r := adminRouter(&mutations)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/products/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, mutations)
}

func TestAuth_InvalidToken(t *testing.T) {
	var mutations int
	r := adminRouter(&mutations)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/products/abc", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, mutations)
}

func TestAuth_ExpiredToken(t *testing.T) {
	var mutations int
	r := adminRouter(&mutations)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/products/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID().Hex(), models.RoleAdmin, -time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, mutations)
}

func TestRequireRole_NonAdminGets403(t *testing.T) {
	var mutations int
	r := adminRouter(&mutations)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/products/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID().Hex(), models.RoleUser, time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
	assert.Equal(t, 0, mutations)
}

func TestRequireRole_AdminPasses(t *testing.T) {
	var mutations int
	r := adminRouter(&mutations)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/products/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID().Hex(), models.RoleAdmin, time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mutations)
}

func TestAuth_RawTokenWithoutBearerPrefix(t *testing.T) {
	r := gin.New()
	r.GET("/me", middleware.Auth(testSecret), func(c *gin.Context) {
		id, role := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	userID := primitive.NewObjectID().Hex()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", signToken(t, userID, models.RoleUser, time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestIsOwnerOrAdmin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(middleware.UserIDKey, "owner-id")
	c.Set(middleware.UserRoleKey, models.RoleUser)

	assert.True(t, middleware.IsOwnerOrAdmin(c, "owner-id"))
	assert.False(t, middleware.IsOwnerOrAdmin(c, "someone-else"))

	c.Set(middleware.UserRoleKey, models.RoleAdmin)
	assert.True(t, middleware.IsOwnerOrAdmin(c, "someone-else"))
}
