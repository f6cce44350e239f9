package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/config"
	"github.com/dmitrijs2005/bfadmin/internal/client/services"
	"github.com/dmitrijs2005/bfadmin/internal/client/session"
	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/logging"
)

// tokenInfo describes the stored credential for the status command.
type tokenInfo interface {
	Describe(ctx context.Context) (session.Info, error)
	Origin() string
}

// baseURLStore persists the manual backend override.
type baseURLStore interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, baseURL string) error
	Clear(ctx context.Context) error
}

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	api      client.Client
	tokens   tokenInfo
	baseURLs baseURLStore

	state   *services.State
	sync    *services.ViewSync
	auth    services.AuthService
	actions *services.Actions

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session database under c.DataDir, resolves the backend
// base URL and wires the API client and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := session.OpenDatabase(ctx, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	baseURLs := session.NewBaseURLStore(db)
	persisted, err := baseURLs.Get(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	baseURL := c.ResolveBaseURL(persisted)

	tokens, err := session.NewStore(db, baseURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("backend url: %w", err)
	}

	api := client.NewHTTPClient(baseURL, tokens,
		client.WithTimeout(c.RequestTimeout),
		client.WithSecureOrigin(c.SecureOrigin),
		client.WithRelay(client.RelayPolicy{
			Endpoints:          c.RelayEndpoints,
			AttemptTimeout:     c.RelayAttemptTimeout,
			MaxAttempts:        c.RelayMaxAttempts,
			ForwardCredentials: c.RelayForwardCredentials,
		}),
		client.WithLogger(log.With("component", "api")),
	)

	state := services.NewState()
	state.OnChange(func(coll services.Collection) {
		log.Debug(context.Background(), "collection updated", "collection", coll)
	})
	vs := services.NewViewSync(api, state, tokens, log, services.WithAdminLogsLimit(c.AdminLogsLimit))

	log.Info(ctx, "backend resolved", "base_url", baseURL, "origin", tokens.Origin())

	return &App{
		config:   c,
		log:      log,
		db:       db,
		api:      api,
		tokens:   tokens,
		baseURLs: baseURLs,
		state:    state,
		sync:     vs,
		auth:     services.NewAuthService(api, tokens, vs, log),
		actions:  services.NewActions(api, vs, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores a stored session, then serves the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn(titleStyle.Render("bfadmin") + mutedStyle.Render(" - whitelist dashboard (type 'help' for commands)"))
	printlnFn(mutedStyle.Render("backend: " + a.api.BaseURL()))

	a.restore(ctx)

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) restore(ctx context.Context) {
	u, err := a.auth.Restore(ctx)
	if u != nil {
		a.notice(noticeSuccess, fmt.Sprintf("Welcome back, %s (%s)", u.Username, u.RoleTitle()))
	}
	switch {
	case err == nil:
	case errors.Is(err, common.ErrUnauthorized):
		a.notice(noticeWarning, "Session expired, please log in again.")
	case errors.Is(err, common.ErrNotLoggedIn):
		a.notice(noticeInfo, "Not logged in. Type 'login' to sign in.")
	default:
		a.report(err)
	}
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.state.User() != nil
}

func (a *App) isAdmin() bool {
	return a.state.User().IsAdmin()
}

// status is the prompt prefix: user and session phase.
func (a *App) status() string {
	u := a.state.User()
	if u == nil {
		return a.state.Phase().String()
	}
	return fmt.Sprintf("%s@%s", u.Username, a.state.Phase())
}

func (a *App) notice(kind noticeKind, msg string) {
	writeNotice(a.out, kind, msg)
}
