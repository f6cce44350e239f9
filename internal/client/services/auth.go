package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/models"
	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate, persist the token, load the dashboard.
//   - Restore: resume a stored session on start; a rejected token is dropped.
//   - Logout: forget the token and every cached collection.
//   - Ping: check the backend is reachable.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Restore(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	api    client.Client
	tokens TokenStore
	sync   *ViewSync
	log    logging.Logger
}

func NewAuthService(api client.Client, tokens TokenStore, sync *ViewSync, log logging.Logger) AuthService {
	return &authService{api: api, tokens: tokens, sync: sync, log: log}
}

// Login signs in and refreshes every collection. A failed refresh does not
// undo the login; the user is returned together with the refresh error.
func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	state := a.sync.State()
	prev := state.Phase()
	state.setPhase(PhaseAuthenticating)

	// A failed attempt leaves the current session, if any, untouched.
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		state.setPhase(prev)
		return nil, err
	}
	if err := a.tokens.Save(ctx, resp.Token); err != nil {
		state.setPhase(prev)
		return nil, fmt.Errorf("save token: %w", err)
	}

	// Caches of the previous user must not leak into the new session.
	state.Reset()
	state.setPhase(PhaseAuthenticating)

	user := resp.User
	state.commit(CollectionUser, state.ticket(CollectionUser), func() { state.user = &user })
	a.log.Info(ctx, "logged in", "user", user.Username, "role", user.Role)

	if err := a.sync.RefreshAll(ctx); err != nil {
		return state.User(), fmt.Errorf("load dashboard: %w", err)
	}
	return state.User(), nil
}

// Restore resumes the stored session, if any. It returns common.ErrNotLoggedIn
// when there is nothing to resume or the backend rejected the stored token.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	_, ok, err := a.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if !ok {
		return nil, common.ErrNotLoggedIn
	}

	state := a.sync.State()
	state.setPhase(PhaseAuthenticating)

	if err := a.sync.LoadUser(ctx); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", common.ErrNotLoggedIn, err)
		}
		state.setPhase(PhaseUnauthenticated)
		return nil, err
	}
	if err := a.sync.RefreshAll(ctx); err != nil {
		return state.User(), fmt.Errorf("load dashboard: %w", err)
	}
	return state.User(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.log.Info(ctx, "logged out")
	return a.sync.Expire(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
