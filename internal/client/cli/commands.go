package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bfadmin/internal/client/client"
	"github.com/dmitrijs2005/bfadmin/internal/client/models"
	"github.com/dmitrijs2005/bfadmin/internal/client/services"
	"github.com/dmitrijs2005/bfadmin/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// errMessage is the user-facing text of err: the backend message for API
// errors, the error text otherwise.
func errMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// report turns err into a notice.
func (a *App) report(err error) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		a.notice(noticeDanger, "Session expired, please log in again.")
	case errors.Is(err, services.ErrRefreshFailed):
		a.notice(noticeWarning, err.Error())
	case errors.Is(err, common.ErrInFlight):
		a.notice(noticeInfo, "Still working on the previous request, please wait.")
	default:
		a.notice(noticeDanger, errMessage(err))
	}
	a.log.Debug(context.Background(), "command failed", "error", err)
}

func argID(args []string, usage string) (models.ID, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: usage: %s", common.ErrValidation, usage)
	}
	return models.ID(args[0]), nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	u, err := a.auth.Login(ctx, username, password)
	if u == nil {
		// a rejected login is not an expired session
		if err != nil {
			a.notice(noticeDanger, "Login failed: "+errMessage(err))
		}
		return nil
	}
	a.notice(noticeSuccess, fmt.Sprintf("Welcome, %s (%s)", u.Username, u.RoleTitle()))
	return err
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.notice(noticeInfo, "Logged out.")
	return nil
}

// Me prints the signed-in user and what is known about the stored token.
func (a *App) Me(ctx context.Context) error {
	u := a.state.User()
	if u == nil {
		return common.ErrNotLoggedIn
	}
	fmt.Fprint(a.out, userCard(u))

	info, err := a.tokens.Describe(ctx)
	if err != nil {
		return err
	}
	switch {
	case !info.Present:
	case info.Opaque:
		fmt.Fprintln(a.out, mutedStyle.Render("token: opaque, saved "+formatTime(&info.SavedAt)))
	default:
		fmt.Fprintln(a.out, mutedStyle.Render(fmt.Sprintf("token: subject %q, expires %s", info.Subject, formatTime(&info.Expires))))
	}
	fmt.Fprintln(a.out, mutedStyle.Render("backend: "+a.tokens.Origin()))
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	u := a.state.User()
	fmt.Fprintln(a.out, titleStyle.Render("Statistics"))
	fmt.Fprintln(a.out, statsTable(a.state.Stats(), u.IsAdmin()))
	if p := a.state.Pricing(); len(p) > 0 {
		fmt.Fprintln(a.out, titleStyle.Render("Pricing"))
		fmt.Fprintln(a.out, pricingTable(p))
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.sync.RefreshAll(ctx); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Dashboard refreshed.")
	return nil
}

// Backend shows the backend in use, or stores/clears the manual override.
// The base URL is fixed for the process, so changes apply on next start.
func (a *App) Backend(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(a.out, "backend: "+a.api.BaseURL())
		if override, err := a.baseURLs.Get(ctx); err == nil && override != "" {
			fmt.Fprintln(a.out, mutedStyle.Render("saved override: "+override))
		}
		if err := a.auth.Ping(ctx); err != nil {
			return err
		}
		a.notice(noticeSuccess, "Backend reachable.")
		return nil

	case len(args) == 1 && args[0] == "reset":
		if err := a.baseURLs.Clear(ctx); err != nil {
			return err
		}
		a.notice(noticeInfo, "Backend override removed; restart to apply.")
		return nil

	case len(args) == 1:
		if err := a.baseURLs.Save(ctx, strings.TrimRight(args[0], "/")); err != nil {
			return err
		}
		a.notice(noticeInfo, "Backend override saved; restart to apply.")
		return nil
	}
	return fmt.Errorf("%w: usage: backend [url|reset]", common.ErrValidation)
}

// parseWhitelistFilter reads "[region] [active|expired|all]" in any order.
func parseWhitelistFilter(args []string) models.WhitelistFilter {
	var f models.WhitelistFilter
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "active", "expired", "all":
			f.Status = strings.ToLower(arg)
		default:
			f.Region = arg
		}
	}
	return f
}

func (a *App) Whitelists(ctx context.Context, args []string) error {
	items := parseWhitelistFilter(args).Apply(a.state.Whitelists())
	if len(items) == 0 {
		a.notice(noticeInfo, "No whitelists.")
		return nil
	}
	fmt.Fprintln(a.out, whitelistTable(items, a.isAdmin()))
	return nil
}

func (a *App) AddWhitelist(ctx context.Context) error {
	uid, err := a.ask("UID")
	if err != nil {
		return err
	}
	region, err := a.ask("Region")
	if err != nil {
		return err
	}

	days := models.Durations
	if p := a.state.Pricing(); len(p) > 0 {
		days = p.Days()
	}
	rawDays, err := a.ask(fmt.Sprintf("Duration in days %v", days))
	if err != nil {
		return err
	}
	duration, err := strconv.Atoi(rawDays)
	if err != nil {
		return fmt.Errorf("%w: duration %q is not a number", common.ErrValidation, rawDays)
	}

	req := models.CreateWhitelistRequest{UID: uid, Region: region, DurationDays: duration}
	if a.isAdmin() {
		if rs := models.ActiveResellers(a.state.Resellers()); len(rs) > 0 {
			fmt.Fprintln(a.out, resellerTable(rs))
		}
		rid, err := a.ask("Reseller ID")
		if err != nil {
			return err
		}
		id := models.ID(rid)
		req.ResellerID = &id
	}

	if err := a.actions.CreateWhitelist(ctx, req); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Whitelist added successfully!")
	return nil
}

// confirmed asks before a destructive action; false means the user declined.
func (a *App) confirmed(question string) (bool, error) {
	ok, err := confirm(a.reader, question, a.out)
	if err != nil {
		return false, err
	}
	if !ok {
		a.notice(noticeInfo, "Cancelled.")
	}
	return ok, nil
}

func (a *App) DeleteWhitelist(ctx context.Context, args []string) error {
	id, err := argID(args, "delwl <id>")
	if err != nil {
		return err
	}
	if ok, err := a.confirmed("Are you sure you want to delete this whitelist?"); err != nil || !ok {
		return err
	}
	if err := a.actions.DeleteWhitelist(ctx, id); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Whitelist deleted successfully!")
	return nil
}

func (a *App) PauseWhitelist(ctx context.Context, args []string) error {
	id, err := argID(args, "pausewl <id>")
	if err != nil {
		return err
	}
	if err := a.actions.ToggleWhitelistPause(ctx, id); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Whitelist status updated.")
	return nil
}

func (a *App) Resellers(ctx context.Context) error {
	if !a.isAdmin() {
		return common.ErrForbidden
	}
	items := a.state.Resellers()
	if len(items) == 0 {
		a.notice(noticeInfo, "No resellers.")
		return nil
	}
	fmt.Fprintln(a.out, resellerTable(items))
	return nil
}

func (a *App) AddReseller(ctx context.Context) error {
	if !a.isAdmin() {
		return common.ErrForbidden
	}
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	plan, err := a.ask("Plan")
	if err != nil {
		return err
	}

	req := models.CreateResellerRequest{Username: username, Password: password, Plan: plan}
	if err := a.actions.CreateReseller(ctx, req); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Reseller created successfully!")
	return nil
}

func (a *App) CreditReseller(ctx context.Context, args []string) error {
	return a.changeBalance(ctx, args, "credit", a.actions.CreditReseller)
}

func (a *App) DebitReseller(ctx context.Context, args []string) error {
	return a.changeBalance(ctx, args, "debit", a.actions.DebitReseller)
}

func (a *App) changeBalance(ctx context.Context, args []string, verb string,
	call func(context.Context, models.ID, string) error) error {
	id, err := argID(args, verb+" <id>")
	if err != nil {
		return err
	}
	amount, err := a.ask("Amount to " + verb)
	if err != nil {
		return err
	}
	if err := call(ctx, id, amount); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Balance updated.")
	return nil
}

func (a *App) ToggleReseller(ctx context.Context, args []string) error {
	id, err := argID(args, "togglereseller <id>")
	if err != nil {
		return err
	}
	if err := a.actions.ToggleReseller(ctx, id); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Reseller status updated.")
	return nil
}

func (a *App) DeleteReseller(ctx context.Context, args []string) error {
	id, err := argID(args, "delreseller <id>")
	if err != nil {
		return err
	}
	if ok, err := a.confirmed("Are you sure you want to delete this reseller?"); err != nil || !ok {
		return err
	}
	if err := a.actions.DeleteReseller(ctx, id); err != nil {
		return err
	}
	a.notice(noticeSuccess, "Reseller deleted successfully!")
	return nil
}

func (a *App) Logs(ctx context.Context) error {
	items := a.state.Logs()
	if len(items) == 0 {
		a.notice(noticeInfo, "No activity yet.")
		return nil
	}
	fmt.Fprintln(a.out, logTable(items))
	return nil
}
