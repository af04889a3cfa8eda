package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewAuthService(db, nil, testJWTSecret)
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterInput{
		Username:  "newcomer",
		Email:     "newcomer@example.com",
		FirstName: "New",
		LastName:  "Comer",
		Password:  "plum-orchard-17",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "plum-orchard-17", user.PasswordHash)

	token, err := svc.Login(ctx, "newcomer@example.com", "plum-orchard-17")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "newcomer", claims.Username)
}

func TestRegisterDuplicate(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewAuthService(db, nil, testJWTSecret)
	ctx := context.Background()

	existing := testhelpers.CreateUser(t, db, "taken")

	_, err := svc.Register(ctx, service.RegisterInput{
		Username: "taken",
		Email:    "fresh@example.com",
		Password: "plum-orchard-17",
	})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Register(ctx, service.RegisterInput{
		Username: "fresh",
		Email:    existing.Email,
		Password: "plum-orchard-17",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRegisterWeakPassword(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewAuthService(db, nil, testJWTSecret)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "weakling",
		Email:    "weakling@example.com",
		Password: "1234",
	})
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewAuthService(db, nil, testJWTSecret)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "locked")

	_, err := svc.Login(ctx, user.Email, "wrong-password")
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(ctx, "ghost@example.com", testhelpers.TestPassword)
	assert.EqualError(t, err, "invalid credentials")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewAuthService(db, nil, testJWTSecret)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// token signed with a different secret
	other := service.NewAuthService(db, nil, "other-secret")
	user := testhelpers.CreateUser(t, db, "victim")
	token, err := other.Login(context.Background(), user.Email, testhelpers.TestPassword)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
