// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth signs in the studio administrator.

The site has exactly one administrator whose username and bcrypt hash come
from configuration. A successful login returns a short-lived access token
that [middleware.Authenticate] understands.
*/
package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/envision/internal/platform/apperr"
	"github.com/taibuivan/envision/internal/platform/constants"
	"github.com/taibuivan/envision/internal/platform/sec"
	"github.com/taibuivan/envision/internal/platform/validate"
)

// TokenProvider issues signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(username, role string, timeToLive time.Duration) (string, time.Time, error)
}

// Credentials is the configured administrator identity.
type Credentials struct {
	Username     string
	PasswordHash string
	TokenTTL     time.Duration
}

// LoginInput holds the submitted credentials.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// errInvalidCredentials never says which half was wrong.
var errInvalidCredentials = apperr.Unauthorized("Invalid username or password")

// Service implements the admin login use case.
type Service struct {
	credentials Credentials
	tokens      TokenProvider
	logger      *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(credentials Credentials, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{credentials: credentials, tokens: tokens, logger: logger}
}

/*
Login verifies credentials and issues an admin token.

The bcrypt comparison runs even for an unknown username so both failures
take the same time.

Returns:
  - *Session: Token and its expiry
  - error: VALIDATION_ERROR when a field is blank, UNAUTHORIZED on mismatch
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validator.Required("username", username).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	usernameMatches := subtle.ConstantTimeCompare([]byte(username), []byte(service.credentials.Username)) == 1
	passwordMatches := sec.CheckPasswordHash(input.Password, service.credentials.PasswordHash)

	if !usernameMatches || !passwordMatches {
		service.logger.WarnContext(context, "admin_login_failed", slog.String("username", username))
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := service.tokens.GenerateAccessToken(username, constants.RoleAdmin, service.credentials.TokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.InfoContext(context, "admin_login", slog.String("username", username))

	return &Session{AccessToken: token, ExpiresAt: expiresAt}, nil
}
