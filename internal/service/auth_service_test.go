package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/anitime-dev/anitime-api/internal/models"
)

type authRepoStub struct {
	user    *models.User
	tokens  map[string]*models.RefreshToken
	audits  []models.AuditLog
	revoked []string
}

func newAuthRepoStub(password string) *authRepoStub {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &authRepoStub{
		user: &models.User{
			ID:           "user-1",
			Email:        "editor@example.com",
			PasswordHash: string(hash),
			FullName:     "編集者",
			Role:         models.RoleEditor,
			Active:       true,
		},
		tokens: map[string]*models.RefreshToken{},
	}
}

func (a *authRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if a.user != nil && a.user.Email == email {
		return a.user, nil
	}
	return nil, sql.ErrNoRows
}

func (a *authRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if a.user != nil && a.user.ID == id {
		return a.user, nil
	}
	return nil, sql.ErrNoRows
}

func (a *authRepoStub) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (a *authRepoStub) UpdatePassword(_ context.Context, _ string, hash string, _ time.Time) error {
	a.user.PasswordHash = hash
	return nil
}

func (a *authRepoStub) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	for _, tok := range a.tokens {
		if tok.UserID == userID {
			tok.Revoked = true
		}
	}
	return nil
}

func (a *authRepoStub) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	a.tokens[token.Token] = token
	return nil
}

func (a *authRepoStub) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := a.tokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (a *authRepoStub) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	a.revoked = append(a.revoked, id)
	for _, tok := range a.tokens {
		if tok.ID == id {
			tok.Revoked = true
		}
	}
	return nil
}

func (a *authRepoStub) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	a.audits = append(a.audits, *log)
	return nil
}

func newAuthTestService(repo *authRepoStub) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "anitime-api",
		Audience:           []string{"anitime"},
	})
}

func TestAuthServiceLoginIssuesSession(t *testing.T) {
	repo := newAuthRepoStub("correct-horse")
	svc := newAuthTestService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "correct-horse", IP: "127.0.0.1", UserAgent: "test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "user-1", resp.User.ID)

	// The access token must round-trip through validation.
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleEditor, claims.Role)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionLogin, repo.audits[0].Action)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := newAuthTestService(newAuthRepoStub("correct-horse"))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "battery-staple",
	})
	require.Error(t, err)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newAuthRepoStub("correct-horse")
	repo.user.Active = false
	svc := newAuthTestService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newAuthRepoStub("correct-horse")
	svc := newAuthTestService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// The spent token must not refresh again.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
}

func TestAuthServiceLogoutChecksOwnership(t *testing.T) {
	repo := newAuthRepoStub("correct-horse")
	svc := newAuthTestService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else", models.LoginRequest{})
	require.Error(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "user-1", models.LoginRequest{}))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
}

func TestAuthServiceChangePasswordRevokesSessions(t *testing.T) {
	repo := newAuthRepoStub("correct-horse")
	svc := newAuthTestService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "correct-horse", NewPassword: "battery-staple-9",
	})
	require.NoError(t, err)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// Old password no longer works, the new one does.
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email: "editor@example.com", Password: "battery-staple-9",
	})
	require.NoError(t, err)
}
