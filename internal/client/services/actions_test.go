package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/models"
	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/logging"
)

func newActions(h *harness) *Actions {
	return NewActions(h.api, h.sync, logging.Nop())
}

func TestActions_CreateWhitelistRefreshes(t *testing.T) {
	h := newHarness(t)
	h.signIn(resellerUser)
	a := newActions(h)

	rid := models.ID("9")
	err := a.CreateWhitelist(context.Background(), models.CreateWhitelistRequest{
		UID: " u2 ", Region: "eu", DurationDays: 30, ResellerID: &rid,
	})
	require.NoError(t, err)

	calls := h.api.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "CreateWhitelist", calls[0])
	assert.Equal(t, 1, h.api.Count("Whitelists"))
	assert.Equal(t, "u2", h.api.LastCreateWL.UID)
	assert.Nil(t, h.api.LastCreateWL.ResellerID)
	assert.Equal(t, PhaseSynced, h.state.Phase())
}

func TestActions_CreateWhitelistAdminNeedsReseller(t *testing.T) {
	h := newHarness(t)
	h.signIn(adminUser)
	a := newActions(h)

	err := a.CreateWhitelist(context.Background(), models.CreateWhitelistRequest{UID: "u", Region: "eu", DurationDays: 7})
	assert.ErrorIs(t, err, common.ErrValidation)

	rid := models.ID("3")
	err = a.CreateWhitelist(context.Background(), models.CreateWhitelistRequest{UID: "u", Region: "eu", DurationDays: 7, ResellerID: &rid})
	require.NoError(t, err)
	require.NotNil(t, h.api.LastCreateWL.ResellerID)
	assert.Equal(t, rid, *h.api.LastCreateWL.ResellerID)
}

func TestActions_Validation(t *testing.T) {
	h := newHarness(t)
	h.signIn(adminUser)
	a := newActions(h)
	ctx := context.Background()
	rid := models.ID("3")

	tests := []struct {
		name string
		call func() error
	}{
		{"empty uid", func() error {
			return a.CreateWhitelist(ctx, models.CreateWhitelistRequest{Region: "eu", DurationDays: 7, ResellerID: &rid})
		}},
		{"empty region", func() error {
			return a.CreateWhitelist(ctx, models.CreateWhitelistRequest{UID: "u", DurationDays: 7, ResellerID: &rid})
		}},
		{"bad duration", func() error {
			return a.CreateWhitelist(ctx, models.CreateWhitelistRequest{UID: "u", Region: "eu", DurationDays: 14, ResellerID: &rid})
		}},
		{"empty id", func() error { return a.DeleteWhitelist(ctx, " ") }},
		{"non numeric amount", func() error { return a.CreditReseller(ctx, "3", "ten") }},
		{"negative amount", func() error { return a.DebitReseller(ctx, "3", "-5") }},
		{"zero amount", func() error { return a.CreditReseller(ctx, "3", "0") }},
		{"nan amount", func() error { return a.CreditReseller(ctx, "3", "NaN") }},
		{"reseller without plan", func() error {
			return a.CreateReseller(ctx, models.CreateResellerRequest{Username: "r", Password: "p"})
		}},
		{"reseller without password", func() error {
			return a.CreateReseller(ctx, models.CreateResellerRequest{Username: "r", Plan: "basic"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), common.ErrValidation)
		})
	}
	assert.Empty(t, h.api.Calls())
}

func TestActions_DeleteFailureLeavesCache(t *testing.T) {
	h := newHarness(t)
	h.signIn(resellerUser)
	require.NoError(t, h.sync.LoadWhitelists(context.Background()))
	before := h.state.Whitelists()

	h.api.MutationErr = &client.APIError{Status: 404, Message: "not found"}
	err := newActions(h).DeleteWhitelist(context.Background(), "42")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "not found", apiErr.Message)
	assert.Equal(t, before, h.state.Whitelists())
	assert.Equal(t, 1, h.api.Count("Whitelists"))
}

func TestActions_UnauthorizedEndsSession(t *testing.T) {
	h := newHarness(t)
	h.signIn(adminUser)
	h.api.MutationErr = &client.APIError{Status: 401, Message: "Unauthorized", Err: common.ErrUnauthorized}

	err := newActions(h).ToggleReseller(context.Background(), "3")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Empty(t, h.tokens.Token())
	assert.Nil(t, h.state.User())
}

func TestActions_InFlightGuard(t *testing.T) {
	h := newHarness(t)
	h.signIn(adminUser)
	a := newActions(h)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	h.api.MutationHook = func(context.Context) {
		once.Do(func() { close(entered) })
		<-release
	}

	done := make(chan error, 1)
	go func() { done <- a.DeleteReseller(context.Background(), "3") }()
	<-entered

	err := a.DeleteReseller(context.Background(), "3")
	assert.ErrorIs(t, err, common.ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, h.api.Count("DeleteReseller"))

	// the guard is released once the first call returns
	require.NoError(t, a.DeleteReseller(context.Background(), "3"))
}

func TestActions_DifferentTargetsRunConcurrently(t *testing.T) {
	h := newHarness(t)
	h.signIn(adminUser)
	a := newActions(h)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	h.api.MutationHook = func(context.Context) {
		once.Do(func() { close(entered) })
		<-release
	}

	done := make(chan error, 1)
	go func() { done <- a.ToggleReseller(context.Background(), "3") }()
	<-entered

	second := make(chan error, 1)
	go func() { second <- a.ToggleReseller(context.Background(), "4") }()
	close(release)

	require.NoError(t, <-done)
	require.NoError(t, <-second)
}

func TestActions_AdminOnly(t *testing.T) {
	h := newHarness(t)
	h.signIn(resellerUser)
	a := newActions(h)
	ctx := context.Background()

	assert.ErrorIs(t, a.CreditReseller(ctx, "3", "10"), common.ErrForbidden)
	assert.ErrorIs(t, a.ToggleReseller(ctx, "3"), common.ErrForbidden)
	assert.ErrorIs(t, a.DeleteReseller(ctx, "3"), common.ErrForbidden)
	assert.ErrorIs(t, a.CreateReseller(ctx, models.CreateResellerRequest{Username: "r", Password: "p", Plan: "b"}), common.ErrForbidden)
	assert.Empty(t, h.api.Calls())
}

func TestActions_NotLoggedIn(t *testing.T) {
	h := newHarness(t)
	a := newActions(h)

	assert.ErrorIs(t, a.DeleteWhitelist(context.Background(), "1"), common.ErrNotLoggedIn)
	assert.ErrorIs(t, a.ToggleReseller(context.Background(), "1"), common.ErrNotLoggedIn)
}

func TestActions_CreditParsesAmount(t *testing.T) {
	h := newHarness(t)
	h.signIn(adminUser)

	require.NoError(t, newActions(h).CreditReseller(context.Background(), "3", " 12.50 "))
	assert.Equal(t, 12.5, h.api.LastAmount)
	assert.Equal(t, 1, h.api.Count("Resellers"))
}

func TestActions_RefreshFailureReported(t *testing.T) {
	h := newHarness(t)
	h.signIn(resellerUser)
	h.api.WhitelistsErr = &client.APIError{Status: 500, Message: "boom"}

	err := newActions(h).ToggleWhitelistPause(context.Background(), "10")
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Equal(t, 1, h.api.Count("ToggleWhitelistPause"))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("5")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = ParseAmount("")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ParseAmount("Inf")
	assert.ErrorIs(t, err, common.ErrValidation)
}
