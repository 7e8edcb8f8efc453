// Package services contains application services for the drop analyzer
// client. This file defines the authentication service: login, register,
// logout, identity of the current session and a liveness probe.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/models"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/session"
)

var ErrNoAccessToken = errors.New("server response has no access token")

// AuthAPI is the part of client.API the auth service needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (json.RawMessage, error)
	Register(ctx context.Context, username, password, email string) (json.RawMessage, error)
	Health(ctx context.Context) (json.RawMessage, error)
}

// AuthService defines authentication operations for the CLI.
//
// Login and Register store the returned token in the session store; the API
// client never does that by itself. Logout only clears local state.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, username, password, email string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (*session.Claims, error)
	Ping(ctx context.Context) (*models.HealthResponse, error)
}

type authService struct {
	api   AuthAPI
	store session.Store
}

func NewAuthService(api AuthAPI, store session.Store) AuthService {
	return &authService{api: api, store: store}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	raw, err := a.api.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.saveSession(ctx, raw)
}

func (a *authService) Register(ctx context.Context, username, password, email string) (*models.AuthResponse, error) {
	raw, err := a.api.Register(ctx, username, password, email)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return a.saveSession(ctx, raw)
}

func (a *authService) saveSession(ctx context.Context, raw json.RawMessage) (*models.AuthResponse, error) {
	resp, err := models.Decode[models.AuthResponse](raw)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	if err := a.store.Set(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return resp, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// Whoami decodes the stored token. It returns session.ErrNoSession when no
// one is logged in.
func (a *authService) Whoami(ctx context.Context) (*session.Claims, error) {
	token, err := a.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return session.ParseClaims(token)
}

// Ping calls the health endpoint and decodes its status.
func (a *authService) Ping(ctx context.Context) (*models.HealthResponse, error) {
	raw, err := a.api.Health(ctx)
	if err != nil {
		return nil, err
	}
	return models.Decode[models.HealthResponse](raw)
}
