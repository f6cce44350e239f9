package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/models"
	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/logging"
)

// ErrRefreshFailed is returned when a mutation succeeded but reloading the
// caches afterwards did not.
var ErrRefreshFailed = errors.New("change saved, but the dashboard could not be refreshed")

// Actions runs backend mutations. Each call is validated first, refused
// with common.ErrInFlight while an identical call is pending, and followed
// by ViewSync.RefreshAll on success. Failed calls leave the caches alone.
type Actions struct {
	api  client.Client
	sync *ViewSync
	log  logging.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewActions(api client.Client, sync *ViewSync, log logging.Logger) *Actions {
	return &Actions{
		api:     api,
		sync:    sync,
		log:     log,
		pending: make(map[string]struct{}),
	}
}

func (a *Actions) acquire(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.pending[key]; busy {
		return false
	}
	a.pending[key] = struct{}{}
	return true
}

func (a *Actions) release(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pending, key)
}

// run executes call under the in-flight guard for key and refreshes on
// success.
func (a *Actions) run(ctx context.Context, key string, call func(ctx context.Context) error) error {
	if a.sync.State().User() == nil {
		return common.ErrNotLoggedIn
	}
	if !a.acquire(key) {
		return fmt.Errorf("%s: %w", key, common.ErrInFlight)
	}
	defer a.release(key)

	if err := call(ctx); err != nil {
		a.log.Warn(ctx, "action failed", "action", key, "error", err)
		return a.sync.check(ctx, err)
	}
	a.log.Info(ctx, "action done", "action", key)

	if err := a.sync.RefreshAll(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

func (a *Actions) requireAdmin() error {
	u := a.sync.State().User()
	if u == nil {
		return common.ErrNotLoggedIn
	}
	if !u.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func requireID(id models.ID) error {
	if strings.TrimSpace(string(id)) == "" {
		return invalid("id is required")
	}
	return nil
}

// ParseAmount parses a user-entered money amount. It must be a positive,
// finite number.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid("amount %q is not a number", s)
	}
	if v <= 0 {
		return 0, invalid("amount must be positive")
	}
	return v, nil
}

// CreateWhitelist provisions a UID. Admins must name the reseller the
// entry is booked to; resellers always book to themselves.
func (a *Actions) CreateWhitelist(ctx context.Context, req models.CreateWhitelistRequest) error {
	req.UID = strings.TrimSpace(req.UID)
	req.Region = strings.TrimSpace(req.Region)
	switch {
	case req.UID == "":
		return invalid("uid is required")
	case req.Region == "":
		return invalid("region is required")
	case !models.IsDuration(req.DurationDays):
		return invalid("duration must be one of %v days", models.Durations)
	}

	if a.sync.State().User().IsAdmin() {
		if req.ResellerID == nil || strings.TrimSpace(string(*req.ResellerID)) == "" {
			return invalid("reseller is required")
		}
	} else {
		req.ResellerID = nil
	}

	return a.run(ctx, "create-whitelist:"+req.UID, func(ctx context.Context) error {
		return a.api.CreateWhitelist(ctx, req)
	})
}

func (a *Actions) DeleteWhitelist(ctx context.Context, id models.ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return a.run(ctx, "delete-whitelist:"+string(id), func(ctx context.Context) error {
		return a.api.DeleteWhitelist(ctx, id)
	})
}

func (a *Actions) ToggleWhitelistPause(ctx context.Context, id models.ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return a.run(ctx, "toggle-whitelist:"+string(id), func(ctx context.Context) error {
		return a.api.ToggleWhitelistPause(ctx, id)
	})
}

func (a *Actions) CreateReseller(ctx context.Context, req models.CreateResellerRequest) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Plan = strings.TrimSpace(req.Plan)
	switch {
	case req.Username == "":
		return invalid("username is required")
	case req.Password == "":
		return invalid("password is required")
	case req.Plan == "":
		return invalid("plan is required")
	}
	return a.run(ctx, "create-reseller:"+req.Username, func(ctx context.Context) error {
		return a.api.CreateReseller(ctx, req)
	})
}

// CreditReseller adds amount (as typed by the user) to a reseller balance.
func (a *Actions) CreditReseller(ctx context.Context, id models.ID, amount string) error {
	return a.balance(ctx, "credit-reseller", id, amount, a.api.CreditReseller)
}

// DebitReseller subtracts amount (as typed by the user) from a reseller balance.
func (a *Actions) DebitReseller(ctx context.Context, id models.ID, amount string) error {
	return a.balance(ctx, "debit-reseller", id, amount, a.api.DebitReseller)
}

func (a *Actions) balance(ctx context.Context, name string, id models.ID, amount string,
	call func(context.Context, models.ID, float64) error) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if err := requireID(id); err != nil {
		return err
	}
	v, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	return a.run(ctx, name+":"+string(id), func(ctx context.Context) error {
		return call(ctx, id, v)
	})
}

func (a *Actions) ToggleReseller(ctx context.Context, id models.ID) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if err := requireID(id); err != nil {
		return err
	}
	return a.run(ctx, "toggle-reseller:"+string(id), func(ctx context.Context) error {
		return a.api.ToggleReseller(ctx, id)
	})
}

func (a *Actions) DeleteReseller(ctx context.Context, id models.ID) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if err := requireID(id); err != nil {
		return err
	}
	return a.run(ctx, "delete-reseller:"+string(id), func(ctx context.Context) error {
		return a.api.DeleteReseller(ctx, id)
	})
}
