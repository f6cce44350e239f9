package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/models"
	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/logging"
)

// DefaultAdminLogsLimit is how many global log entries an admin loads.
const DefaultAdminLogsLimit = 200

// TokenStore is the part of the session store the services need.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}

// ViewSync reloads cached collections from the backend.
//
// Concurrent calls of the same Load method share one request. RefreshAll
// always starts fresh requests.
type ViewSync struct {
	api       client.Client
	state     *State
	tokens    TokenStore
	log       logging.Logger
	logsLimit int

	group singleflight.Group
}

type ViewSyncOption func(*ViewSync)

func WithAdminLogsLimit(n int) ViewSyncOption {
	return func(v *ViewSync) {
		if n > 0 {
			v.logsLimit = n
		}
	}
}

func NewViewSync(api client.Client, state *State, tokens TokenStore, log logging.Logger, opts ...ViewSyncOption) *ViewSync {
	v := &ViewSync{
		api:       api,
		state:     state,
		tokens:    tokens,
		log:       log,
		logsLimit: DefaultAdminLogsLimit,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *ViewSync) State() *State {
	return v.state
}

// load fetches one collection through the singleflight group and commits
// it with a fresh generation ticket.
func (v *ViewSync) load(ctx context.Context, c Collection, fetch func(ctx context.Context) (func(), error)) error {
	_, err, _ := v.group.Do(string(c), func() (any, error) {
		t := v.state.ticket(c)
		apply, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if !v.state.commit(c, t, apply) {
			v.log.Debug(ctx, "discarded stale load", "collection", c, "ticket", t)
		}
		return nil, nil
	})
	if err != nil {
		return v.check(ctx, fmt.Errorf("load %s: %w", c, err))
	}
	return nil
}

func (v *ViewSync) LoadUser(ctx context.Context) error {
	return v.load(ctx, CollectionUser, func(ctx context.Context) (func(), error) {
		u, err := v.api.Me(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.state.user = u }, nil
	})
}

func (v *ViewSync) LoadWhitelists(ctx context.Context) error {
	return v.load(ctx, CollectionWhitelists, func(ctx context.Context) (func(), error) {
		items, err := v.api.Whitelists(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.state.whitelists = items }, nil
	})
}

// LoadResellers is admin only; for other roles it is a no-op.
func (v *ViewSync) LoadResellers(ctx context.Context) error {
	if !v.state.User().IsAdmin() {
		return nil
	}
	return v.load(ctx, CollectionResellers, func(ctx context.Context) (func(), error) {
		items, err := v.api.Resellers(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.state.resellers = items }, nil
	})
}

// LoadActivityLogs loads the global log for admins and the caller's own
// log otherwise.
func (v *ViewSync) LoadActivityLogs(ctx context.Context) error {
	admin := v.state.User().IsAdmin()
	return v.load(ctx, CollectionLogs, func(ctx context.Context) (func(), error) {
		var (
			items []models.ActivityLogEntry
			err   error
		)
		if admin {
			items, err = v.api.AdminLogs(ctx, v.logsLimit)
		} else {
			items, err = v.api.ActivityLogs(ctx)
		}
		if err != nil {
			return nil, err
		}
		return func() { v.state.logs = items }, nil
	})
}

func (v *ViewSync) LoadStats(ctx context.Context) error {
	return v.load(ctx, CollectionStats, func(ctx context.Context) (func(), error) {
		s, err := v.api.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.state.stats = s }, nil
	})
}

func (v *ViewSync) LoadPricing(ctx context.Context) error {
	return v.load(ctx, CollectionPricing, func(ctx context.Context) (func(), error) {
		p, err := v.api.Pricing(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.state.pricing = p }, nil
	})
}

// RefreshAll reloads the user and then, concurrently, every collection the
// user's role may see. Loads already in flight are not joined.
func (v *ViewSync) RefreshAll(ctx context.Context) error {
	for _, c := range allCollections {
		v.group.Forget(string(c))
	}

	if err := v.LoadUser(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return v.LoadStats(gctx) })
	g.Go(func() error { return v.LoadPricing(gctx) })
	g.Go(func() error { return v.LoadWhitelists(gctx) })
	g.Go(func() error { return v.LoadActivityLogs(gctx) })
	g.Go(func() error { return v.LoadResellers(gctx) })

	if err := g.Wait(); err != nil {
		return err
	}
	v.state.setPhase(PhaseSynced)
	return nil
}

// Expire ends the session: the token is cleared and State is reset.
func (v *ViewSync) Expire(ctx context.Context) error {
	v.state.Reset()
	if err := v.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// check ends the session when err says the credential was rejected.
func (v *ViewSync) check(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, common.ErrUnauthorized) {
		return err
	}
	v.log.Info(ctx, "session expired", "error", err)
	if cerr := v.Expire(ctx); cerr != nil {
		v.log.Error(ctx, "failed to clear session", "error", cerr)
	}
	return err
}
