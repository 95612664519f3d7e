package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/medhabt/technotes/internal/hash"
	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/repo"
	"github.com/medhabt/technotes/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	Producer      Publisher
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

// Login checks the credentials and mints the access/refresh token pair.
// The refresh token is delivered by the HTTP layer as a cookie only.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login failed", "reason", "unknown username")
			return nil, fmt.Errorf("no user with such a username: %w", ErrNotFound)
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "wrong password")
		return nil, fmt.Errorf("wrong password: %w", ErrUnauthorized)
	}

	accessToken, err := tokens.IssueAccessToken(user.Username, user.Roles, user.ID, s.AccessSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tokens.IssueRefreshToken(user.Username, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login successful")
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshExp:   time.Now().Add(tokens.RefreshTTL),
	}, nil
}

// Refresh verifies the refresh token and reissues an access token. The
// refresh token itself is not rotated; it stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh rejected", "reason", "bad token", "error", err)
		return "", fmt.Errorf("invalid refresh token: %w", ErrForbidden)
	}

	user, err := s.Repo.FindUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh rejected", "reason", "user gone", "username", claims.Username)
			return "", fmt.Errorf("user not found or inactive: %w", ErrForbidden)
		}
		return "", err
	}
	if !user.Active {
		l.Warn("refresh rejected", "reason", "inactive user", "username", user.Username)
		return "", fmt.Errorf("user not found or inactive: %w", ErrForbidden)
	}

	return tokens.IssueAccessToken(user.Username, user.Roles, user.ID, s.AccessSecret)
}
