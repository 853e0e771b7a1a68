package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/auth"
	"github.com/shioriapp/shiori-server/internal/domain"
	domainerrors "github.com/shioriapp/shiori-server/internal/errors"
)

var client = auth.ClientInfo{IPAddress: "203.0.113.9", UserAgent: "shiori-test"}

func signUp(t *testing.T, env *testEnv, email string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.SignUp(context.Background(), SignUpRequest{
		Email:    email,
		Password: "correct horse",
		Username: "Mika",
	}, client)
	require.NoError(t, err)
	return resp
}

func TestSignUp_CreatesUserProfileAndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := signUp(t, env, "Reader@Example.com")

	assert.True(t, len(resp.User.ID) > len("user-"))
	assert.Equal(t, "Reader@Example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, resp.RefreshToken, 43)
	assert.Equal(t, "Bearer", resp.TokenType)

	profile, err := env.store.GetProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mika", profile.Username)
	assert.Equal(t, domain.DefaultBio, profile.Bio)

	session, err := env.store.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, auth.HashRefreshToken(resp.RefreshToken), session.RefreshTokenHash)
	assert.Equal(t, "203.0.113.9", session.IPAddress)
}

func TestSignUp_DefaultUsername(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.SignUp(context.Background(), SignUpRequest{
		Email: "anon@example.com", Password: "long enough",
	}, client)
	require.NoError(t, err)

	profile, err := env.store.GetProfile(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUsername, profile.Username)
}

func TestSignUp_DuplicateEmailIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	signUp(t, env, "reader@example.com")

	_, err := env.auth.SignUp(context.Background(), SignUpRequest{
		Email: "READER@example.com", Password: "another password",
	}, client)

	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestSignUp_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.SignUp(context.Background(), SignUpRequest{
		Email: "not-an-email", Password: "short",
	}, client)

	require.ErrorIs(t, err, domainerrors.ErrValidation)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Details, "email")
	assert.Contains(t, derr.Details, "password")
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)
	signUp(t, env, "reader@example.com")
	ctx := context.Background()

	t.Run("success ignores email case", func(t *testing.T) {
		resp, err := env.auth.SignIn(ctx, SignInRequest{Email: "Reader@EXAMPLE.com", Password: "correct horse"}, client)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.False(t, resp.User.LastLoginAt.IsZero())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.SignIn(ctx, SignInRequest{Email: "reader@example.com", Password: "wrong horse"}, client)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		_, err := env.auth.SignIn(ctx, SignInRequest{Email: "ghost@example.com", Password: "correct horse"}, client)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})
}

func TestRefresh_RotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := signUp(t, env, "reader@example.com")

	second, err := env.auth.Refresh(ctx, RefreshRequest{RefreshToken: first.RefreshToken}, client)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.User.ID, second.User.ID)

	// The old token no longer works.
	_, err = env.auth.Refresh(ctx, RefreshRequest{RefreshToken: first.RefreshToken}, client)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestRefresh_ExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := signUp(t, env, "reader@example.com")

	session, err := env.store.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	session.ExpiresAt = session.CreatedAt.Add(-1)
	require.NoError(t, env.store.UpdateSession(ctx, session))

	_, err = env.auth.Refresh(ctx, RefreshRequest{RefreshToken: resp.RefreshToken}, client)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	_, err = env.store.GetSession(ctx, resp.SessionID)
	assert.Error(t, err, "expired session should be deleted")
}

func TestSignOut_RevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := signUp(t, env, "reader@example.com")

	user, claims, err := env.auth.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.SessionID, claims.SessionID)

	require.NoError(t, env.auth.SignOut(ctx, SignOutRequest{RefreshToken: resp.RefreshToken}))
	// Signing out twice is fine.
	require.NoError(t, env.auth.SignOut(ctx, SignOutRequest{RefreshToken: resp.RefreshToken}))

	_, _, err = env.auth.VerifyAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.auth.VerifyAccessToken(context.Background(), "v4.local.nope")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestDeleteExpiredSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := signUp(t, env, "reader@example.com")

	n, err := env.auth.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	session, err := env.store.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	session.ExpiresAt = session.CreatedAt.AddDate(0, 0, -1)
	require.NoError(t, env.store.UpdateSession(ctx, session))

	n, err = env.auth.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
