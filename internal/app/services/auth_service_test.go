package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/pkg/apperrors"
	"github.com/mypostula/backend/internal/pkg/auth"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := f.nextID
	f.nextID++
	copied := *user
	copied.ID = id
	copied.IsActive = true
	f.users[id] = &copied
	return id, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

type storedToken struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type fakeTokenStore struct {
	tokens map[string]*storedToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*storedToken)}
}

func (f *fakeTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = &storedToken{userID: userID, expiry: expiryDate}
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error) {
	t, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrTokenNotFound
	}
	return t.userID, t.expiry, t.revoked, nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, token string) error {
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	for _, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func newTestAuthService() (AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "postula.test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens
}

func registerReq(email, password string) *dto.RegisterRequest {
	return &dto.RegisterRequest{Email: email, Password: password, ConfirmPassword: password}
}

func TestRegister_Succeeds(t *testing.T) {
	svc, users, tokens := newTestAuthService()

	resp, err := svc.Register(context.Background(), registerReq("Dev@Example.com", "password1"))

	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", resp.User.Email, "email is lowercased")
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)

	stored, err := users.GetUserByEmail(context.Background(), "dev@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.Password, "password is stored hashed")

	_, _, revoked, err := tokens.GetTokenByValue(context.Background(), resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRegister_Validations(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("not-an-email", "password1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)

	_, err = svc.Register(ctx, registerReq("a@example.com", "short1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Register(ctx, registerReq("a@example.com", "12345678"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword, "needs a letter")

	_, err = svc.Register(ctx, registerReq("a@example.com", "abcdefgh"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword, "needs a digit")

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password1", ConfirmPassword: "password2"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("a@example.com", "password1"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("A@Example.com", "password1"))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("a@example.com", "password1"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Disabled accounts cannot sign in even with the right password
	user, err := users.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	user.IsActive = false

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshToken_RotatesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("a@example.com", "password1"))
	require.NoError(t, err)
	oldToken := resp.Token.RefreshToken

	newTokens, err := svc.RefreshToken(ctx, oldToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newTokens.AccessToken)
	assert.NotEqual(t, oldToken, newTokens.RefreshToken)

	// The old token is revoked and cannot be replayed
	_, _, revoked, err := tokens.GetTokenByValue(ctx, oldToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.RefreshToken(ctx, oldToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshToken_Invalid(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	_, err := svc.RefreshToken(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.RefreshToken(ctx, "unknown-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	// Expired tokens are rejected and revoked
	require.NoError(t, tokens.CreateToken(ctx, "stale", 1, time.Now().Add(-time.Hour)))
	_, err = svc.RefreshToken(ctx, "stale")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("a@example.com", "password1"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.User.ID))

	_, _, revoked, err := tokens.GetTokenByValue(ctx, resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)
}
