package service

import (
	"context"
	"errors"
	"testing"

	"glowpos/internal/config"
	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo keeps users in a map, keyed by username.
type stubUserRepo struct {
	byUsername map[string]*model.User
	byID       map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{
		byUsername: make(map[string]*model.User),
		byID:       make(map[uuid.UUID]*model.User),
	}
	for _, u := range users {
		r.byUsername[u.Username] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, exists := r.byUsername[u.Username]; exists {
		return errors.New("duplicate username")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byUsername[u.Username] = u
	r.byID[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.byUsername[username]
	if !ok || !u.Active {
		return nil, &repository.NotFoundError{Entity: "user", Ref: username}
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, &repository.NotFoundError{Entity: "user", Ref: id.String()}
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.byID {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.byID[u.ID] = u
	r.byUsername[u.Username] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.byID[id]
	if !ok {
		return &repository.NotFoundError{Entity: "user", Ref: id.String()}
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.byID[id]
	if !ok {
		return &repository.NotFoundError{Entity: "user", Ref: id.String()}
	}
	u.Active = true
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedUser(t *testing.T, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
}

func TestLogin(t *testing.T) {
	user := seedUser(t, "cashier1", "secret123", "cashier")
	svc := NewAuthService(newStubUserRepo(user), testAuthConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "cashier1", resp.User.Username)
	assert.Equal(t, "cashier", resp.User.Role)

	// Token carries the expected claims
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "cashier1", claims["username"])
	assert.Equal(t, "cashier", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	user := seedUser(t, "cashier1", "secret123", "cashier")
	svc := NewAuthService(newStubUserRepo(user), testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	user := seedUser(t, "old", "secret123", "cashier")
	user.Active = false
	svc := NewAuthService(newStubUserRepo(user), testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "old", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	user := seedUser(t, "super1", "secret123", "supervisor")
	svc := NewAuthService(newStubUserRepo(user), testAuthConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "super1", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "super1", refreshed.User.Username)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	user := seedUser(t, "super1", "secret123", "supervisor")
	repo := newStubUserRepo(user)
	svc := NewAuthService(repo, testAuthConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "super1", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testAuthConfig())

	_, err := svc.Refresh(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testAuthConfig())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newadmin",
		Name:     "New Admin",
		Password: "longenough",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored := repo.byUsername["newadmin"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestDeactivateReactivateUser(t *testing.T) {
	user := seedUser(t, "cashier1", "secret123", "cashier")
	repo := newStubUserRepo(user)
	svc := NewAuthService(repo, testAuthConfig())

	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))
	assert.False(t, repo.byID[user.ID].Active)

	require.NoError(t, svc.ReactivateUser(context.Background(), user.ID))
	assert.True(t, repo.byID[user.ID].Active)
}
