// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/envision/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies that a generated token verifies with the same secret.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("s3cret", "envision.test")
	require.NoError(t, err)

	token, expiresAt, err := service.GenerateAccessToken("admin", "admin", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.HasRole("admin"))
}

/*
TestTokenService_Rejects covers tampered, foreign, and expired tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service, err := sec.NewTokenService("s3cret", "envision.test")
	require.NoError(t, err)

	other, err := sec.NewTokenService("different", "envision.test")
	require.NoError(t, err)

	foreign, _, err := other.GenerateAccessToken("admin", "admin", time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	expired, _, err := service.GenerateAccessToken("admin", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "envision.test")
	assert.ErrorIs(t, err, sec.ErrEmptySecret)
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
}
