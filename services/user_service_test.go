package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"storefront-api/models"
	"storefront-api/services"
)

const (
	testJWTSecret   = "test-secret"
	testAdminSecret = "admin123"
)

func newUserService(users *mockUserRepo) *services.UserService {
	return services.NewUserService(users, testJWTSecret, 168*time.Hour, testAdminSecret)
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	users := newMockUserRepo()
	svc := newUserService(users)

	result, svcErr := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Carol Danvers",
		Email:    "carol@example.com",
		Password: "secret123",
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.NotEqual(t, "secret123", result.User.Password)

	token, err := jwt.Parse(result.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, result.User.ID.Hex(), claims["user_id"])
	assert.Equal(t, models.RoleUser, claims["role"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newMockUserRepo()
	svc := newUserService(users)

	req := &models.RegisterRequest{Name: "Carol", Email: "carol@example.com", Password: "secret123"}
	_, svcErr := svc.Register(context.Background(), req)
	assert.Nil(t, svcErr)

	_, svcErr = svc.Register(context.Background(), req)
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
}

func TestRegisterAdmin_SecretRequired(t *testing.T) {
	users := newMockUserRepo()
	svc := newUserService(users)

	_, svcErr := svc.RegisterAdmin(context.Background(), &models.RegisterRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret123", AdminSecret: "wrong",
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Code)

	result, svcErr := svc.RegisterAdmin(context.Background(), &models.RegisterRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret123", AdminSecret: testAdminSecret,
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
}

func TestLogin_WrongCredentials(t *testing.T) {
	users := newMockUserRepo()
	svc := newUserService(users)
	_, _ = svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Carol", Email: "carol@example.com", Password: "secret123",
	})

	// Wrong password and unknown email produce the same message.
	_, badPass := svc.Login(context.Background(), &models.LoginRequest{Email: "carol@example.com", Password: "nope12"})
	_, badEmail := svc.Login(context.Background(), &models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.NotNil(t, badPass)
	assert.NotNil(t, badEmail)
	assert.Equal(t, http.StatusUnauthorized, badPass.Code)
	assert.Equal(t, badPass.Message, badEmail.Message)

	result, svcErr := svc.Login(context.Background(), &models.LoginRequest{Email: "carol@example.com", Password: "secret123"})
	assert.Nil(t, svcErr)
	assert.NotEmpty(t, result.Token)
}

func TestDeleteByID_SelfDeleteForbidden(t *testing.T) {
	users := newMockUserRepo()
	svc := newUserService(users)
	result, _ := svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Carol", Email: "carol@example.com", Password: "secret123",
	})

	_, svcErr := svc.DeleteByID(context.Background(), result.User.ID.Hex(), result.User.ID.Hex())
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Code)
}

func TestPromote_ElevatesRole(t *testing.T) {
	users := newMockUserRepo()
	svc := newUserService(users)
	result, _ := svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Carol", Email: "carol@example.com", Password: "secret123",
	})

	_, svcErr := svc.Promote(context.Background(), result.User.ID.Hex(), &models.PromoteRequest{AdminSecret: "wrong"})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Code)

	user, svcErr := svc.Promote(context.Background(), result.User.ID.Hex(), &models.PromoteRequest{AdminSecret: testAdminSecret})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// Promoting an admin again is a no-op.
	user, svcErr = svc.Promote(context.Background(), result.User.ID.Hex(), &models.PromoteRequest{AdminSecret: testAdminSecret})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.RoleAdmin, user.Role)
}
