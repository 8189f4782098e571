package services

import (
	"context"
	"errors"
	"testing"

	"menshub/internal/config"
	"menshub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	users  map[string]*models.User
	tokens map[int]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}, tokens: map[int]string{}}
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	m.tokens[userID] = token
	return nil
}

func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int, token string) (bool, error) {
	return m.tokens[userID] == token, nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	if m.tokens[userID] == token {
		delete(m.tokens, userID)
	}
	return nil
}

func newTestAuth(repo *mockUserRepo) *AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", AccessTokenTTL: "1h", RefreshTokenTTL: "24h"}
	return NewAuthService(repo, cfg)
}

func addUser(repo *mockUserRepo, username, password, role string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &models.User{ID: len(repo.users) + 1, Username: username, PasswordHash: string(hash), Role: role}
	repo.users[username] = u
	return u
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := newMockUserRepo()
	addUser(repo, "editor", "s3cret", "admin")
	svc := newTestAuth(repo)

	access, refresh, user, err := svc.Login(context.Background(), "editor", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, refresh, repo.tokens[user.ID], "refresh token is persisted")

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(refresh, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims["token_type"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	addUser(repo, "editor", "s3cret", "admin")
	svc := newTestAuth(repo)

	_, _, _, err := svc.Login(context.Background(), "editor", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(context.Background(), "ghost", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRequiresStoredToken(t *testing.T) {
	repo := newMockUserRepo()
	u := addUser(repo, "editor", "s3cret", "admin")
	svc := newTestAuth(repo)

	_, refresh, _, err := svc.Login(context.Background(), "editor", "s3cret")
	require.NoError(t, err)

	access, err := svc.Refresh(context.Background(), u.ID, u.Role, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh(context.Background(), u.ID, u.Role, "forged-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	repo := newMockUserRepo()
	u := addUser(repo, "editor", "s3cret", "admin")
	svc := newTestAuth(repo)

	_, refresh, _, err := svc.Login(context.Background(), "editor", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), u.ID, refresh))

	_, err = svc.Refresh(context.Background(), u.ID, u.Role, refresh)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
