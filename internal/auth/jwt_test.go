// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/safehaven/internal/config"
	"github.com/carterperez-dev/safehaven/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "0123456789abcdef0123456789abcdef",
		AccessTokenExpire: 720 * time.Hour,
		Issuer:            "safehaven",
		Audience:          "safehaven-api",
	}
}

func newTestManager(t *testing.T, cfg config.JWTConfig) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(cfg)
	require.NoError(t, err)
	return m
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestManager(t, testJWTConfig())

	before := time.Now()
	token, exp, err := m.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(720*time.Hour), exp, time.Minute)

	claims, err := m.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager(t, testJWTConfig())

	issuedAt := time.Now().Add(-800 * time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue(1)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenManager_Invalid(t *testing.T) {
	m := newTestManager(t, testJWTConfig())
	token, _, err := m.Issue(1)
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	other := newTestManager(t, otherCfg)

	audCfg := testJWTConfig()
	audCfg.Audience = "someone-else"
	wrongAud := newTestManager(t, audCfg)

	tests := []struct {
		name  string
		m     *TokenManager
		token string
	}{
		{"garbage", m, "not-a-jwt"},
		{"tampered", m, token[:len(token)-2] + "xx"},
		{"other secret", other, token},
		{"wrong audience", wrongAud, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.m.VerifyAccessToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, core.ErrTokenInvalid)
		})
	}
}

func TestTokenManager_ExpiredWithOtherSecretIsInvalid(t *testing.T) {
	otherCfg := testJWTConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	other := newTestManager(t, otherCfg)
	other.now = func() time.Time { return time.Now().Add(-800 * time.Hour) }

	token, _, err := other.Issue(1)
	require.NoError(t, err)

	m := newTestManager(t, testJWTConfig())
	_, err = m.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
