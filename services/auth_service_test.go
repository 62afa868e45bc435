package services

import (
	"testing"
	"time"

	"backend/entity"
	"backend/repository"
	"backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEnv(t *testing.T) (*AuthService, *UserService) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo, "test-secret", time.Hour), NewUserService(userRepo)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	auth, users := newAuthEnv(t)

	created, err := users.Create(&CreateUserReq{
		Username: "somchai",
		Password: "secret123",
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Role:     entity.RoleWaiter,
	})
	require.NoError(t, err)

	res, err := auth.Login("somchai", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, created.ID, res.User.ID)

	claims, err := utils.ParseToken(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, entity.RoleWaiter, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, users := newAuthEnv(t)

	_, err := users.Create(&CreateUserReq{
		Username: "somchai",
		Password: "secret123",
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Role:     entity.RoleWaiter,
	})
	require.NoError(t, err)

	var validation *ValidationError
	_, err = auth.Login("somchai", "wrong")
	require.ErrorAs(t, err, &validation)

	_, err = auth.Login("nobody", "secret123")
	require.ErrorAs(t, err, &validation)

	_, err = auth.Login("", "")
	require.ErrorAs(t, err, &validation)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := utils.GenerateToken(1, entity.RoleAdmin, "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = utils.ParseToken(token, "secret-b")
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := utils.GenerateToken(1, entity.RoleAdmin, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = utils.ParseToken(token, "test-secret")
	require.Error(t, err)
}

func TestUserCreateValidation(t *testing.T) {
	_, users := newAuthEnv(t)

	_, err := users.Create(&CreateUserReq{
		Username: "somchai",
		Password: "secret123",
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Role:     entity.Role("chef"),
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = users.Create(&CreateUserReq{
		Username: "somchai",
		Password: "secret123",
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Role:     entity.RoleWaiter,
	})
	require.NoError(t, err)

	// duplicate username
	_, err = users.Create(&CreateUserReq{
		Username: "somchai",
		Password: "other456",
		Name:     "Somchai II",
		Email:    "somchai2@example.com",
		Role:     entity.RoleCashier,
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUserUpdateRole(t *testing.T) {
	_, users := newAuthEnv(t)

	u, err := users.Create(&CreateUserReq{
		Username: "malee",
		Password: "secret123",
		Name:     "Malee",
		Email:    "malee@example.com",
		Role:     entity.RoleWaiter,
	})
	require.NoError(t, err)

	cashier := entity.RoleCashier
	got, err := users.Update(u.ID, nil, nil, &cashier)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, got.Role)

	bad := entity.Role("owner")
	_, err = users.Update(u.ID, nil, nil, &bad)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}
