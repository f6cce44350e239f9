package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/models"
)

// fakeClient implements client.Client for unit tests. Results are served
// from the fields; every call is recorded by name.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	LoginResp *models.LoginResponse
	LoginErr  error

	MeUser *models.User
	MeErr  error

	StatsRet   *models.Stats
	PricingRet models.Pricing

	WhitelistsRet []models.WhitelistEntry
	WhitelistsErr error
	// WhitelistsFunc, when set, replaces the canned result; call counts
	// from 1.
	WhitelistsFunc func(ctx context.Context, call int) ([]models.WhitelistEntry, error)

	ResellersRet []models.Reseller
	LogsRet      []models.ActivityLogEntry
	AdminLogsRet []models.ActivityLogEntry
	AdminLimit   int

	MutationErr  error
	MutationHook func(ctx context.Context)
	LastCreateWL models.CreateWhitelistRequest
	LastAmount   float64
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) BaseURL() string { return "http://backend.test" }

func (f *fakeClient) Ping(context.Context) error {
	f.record("Ping")
	return nil
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*models.LoginResponse, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginResp, nil
}

func (f *fakeClient) Me(context.Context) (*models.User, error) {
	f.record("Me")
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	if f.MeUser == nil {
		return nil, errors.New("no user")
	}
	u := *f.MeUser
	return &u, nil
}

func (f *fakeClient) Stats(context.Context) (*models.Stats, error) {
	f.record("Stats")
	if f.StatsRet == nil {
		return &models.Stats{}, nil
	}
	return f.StatsRet, nil
}

func (f *fakeClient) Pricing(context.Context) (models.Pricing, error) {
	f.record("Pricing")
	return f.PricingRet, nil
}

func (f *fakeClient) Whitelists(ctx context.Context) ([]models.WhitelistEntry, error) {
	f.record("Whitelists")
	if f.WhitelistsFunc != nil {
		return f.WhitelistsFunc(ctx, f.Count("Whitelists"))
	}
	if f.WhitelistsErr != nil {
		return nil, f.WhitelistsErr
	}
	return append([]models.WhitelistEntry{}, f.WhitelistsRet...), nil
}

func (f *fakeClient) mutate(ctx context.Context, name string) error {
	f.record(name)
	if f.MutationHook != nil {
		f.MutationHook(ctx)
	}
	return f.MutationErr
}

func (f *fakeClient) CreateWhitelist(ctx context.Context, req models.CreateWhitelistRequest) error {
	f.mu.Lock()
	f.LastCreateWL = req
	f.mu.Unlock()
	return f.mutate(ctx, "CreateWhitelist")
}

func (f *fakeClient) DeleteWhitelist(ctx context.Context, _ models.ID) error {
	return f.mutate(ctx, "DeleteWhitelist")
}

func (f *fakeClient) ToggleWhitelistPause(ctx context.Context, _ models.ID) error {
	return f.mutate(ctx, "ToggleWhitelistPause")
}

func (f *fakeClient) ActivityLogs(context.Context) ([]models.ActivityLogEntry, error) {
	f.record("ActivityLogs")
	return f.LogsRet, nil
}

func (f *fakeClient) AdminLogs(_ context.Context, limit int) ([]models.ActivityLogEntry, error) {
	f.record("AdminLogs")
	f.mu.Lock()
	f.AdminLimit = limit
	f.mu.Unlock()
	return f.AdminLogsRet, nil
}

func (f *fakeClient) Resellers(context.Context) ([]models.Reseller, error) {
	f.record("Resellers")
	return f.ResellersRet, nil
}

func (f *fakeClient) CreateReseller(ctx context.Context, _ models.CreateResellerRequest) error {
	return f.mutate(ctx, "CreateReseller")
}

func (f *fakeClient) CreditReseller(ctx context.Context, _ models.ID, amount float64) error {
	f.mu.Lock()
	f.LastAmount = amount
	f.mu.Unlock()
	return f.mutate(ctx, "CreditReseller")
}

func (f *fakeClient) DebitReseller(ctx context.Context, _ models.ID, amount float64) error {
	f.mu.Lock()
	f.LastAmount = amount
	f.mu.Unlock()
	return f.mutate(ctx, "DebitReseller")
}

func (f *fakeClient) ToggleReseller(ctx context.Context, _ models.ID) error {
	return f.mutate(ctx, "ToggleReseller")
}

func (f *fakeClient) DeleteReseller(ctx context.Context, _ models.ID) error {
	return f.mutate(ctx, "DeleteReseller")
}

// memTokens is an in-memory TokenStore.
type memTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
	saveErr error
}

func (m *memTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Get(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != "", nil
}

func (m *memTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
