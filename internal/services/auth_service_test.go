package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
)

func newAuthFixture() *AuthService {
	return NewAuthService(repository.NewMemoryUserRepository(), []byte("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture()

	user, err := svc.RegisterUser(models.UserRegisterRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.NotEmpty(t, user.ID)

	login, err := svc.LoginUser(models.UserLoginRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.UserID)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc := newAuthFixture()

	_, err := svc.RegisterUser(models.UserRegisterRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.RegisterUser(models.UserRegisterRequest{Email: "dev@example.com", Password: "other"})
	require.Error(t, err)
	assert.Equal(t, "email already registered", err.Error())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture()

	_, err := svc.RegisterUser(models.UserRegisterRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.LoginUser(models.UserLoginRequest{Email: "dev@example.com", Password: "wrong"})
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.LoginUser(models.UserLoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestUserByID(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	svc := NewAuthService(users, []byte("test-secret"))

	created, err := svc.RegisterUser(models.UserRegisterRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	objID, err := primitive.ObjectIDFromHex(created.ID)
	require.NoError(t, err)

	user, err := svc.UserByID(context.Background(), objID)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)

	_, err = svc.UserByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
