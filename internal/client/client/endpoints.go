package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/bfadmin/internal/client/models"
)

func idPath(format string, id models.ID) string {
	return fmt.Sprintf(format, url.PathEscape(string(id)))
}

// Ping checks the backend is reachable. The price list needs no role.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.DoJSON(ctx, http.MethodGet, "/api/pricing", nil, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.DoJSON(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response carries no token"}
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.DoJSON(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if err := c.DoJSON(ctx, http.MethodGet, "/api/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Pricing(ctx context.Context) (models.Pricing, error) {
	p := models.Pricing{}
	if err := c.DoJSON(ctx, http.MethodGet, "/api/pricing", nil, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *HTTPClient) Whitelists(ctx context.Context) ([]models.WhitelistEntry, error) {
	items := []models.WhitelistEntry{}
	if err := c.DoJSON(ctx, http.MethodGet, "/api/whitelists", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.WhitelistEntry{}
	}
	return items, nil
}

func (c *HTTPClient) CreateWhitelist(ctx context.Context, req models.CreateWhitelistRequest) error {
	return c.DoJSON(ctx, http.MethodPost, "/api/whitelists", req, nil)
}

func (c *HTTPClient) DeleteWhitelist(ctx context.Context, id models.ID) error {
	return c.DoJSON(ctx, http.MethodDelete, idPath("/api/whitelists/%s", id), nil, nil)
}

func (c *HTTPClient) ToggleWhitelistPause(ctx context.Context, id models.ID) error {
	return c.DoJSON(ctx, http.MethodPost, idPath("/api/whitelists/%s/toggle-pause", id), nil, nil)
}

func (c *HTTPClient) ActivityLogs(ctx context.Context) ([]models.ActivityLogEntry, error) {
	return c.logs(ctx, "/api/activity-logs")
}

func (c *HTTPClient) AdminLogs(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	path := "/api/admin/logs"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	return c.logs(ctx, path)
}

func (c *HTTPClient) logs(ctx context.Context, path string) ([]models.ActivityLogEntry, error) {
	items := []models.ActivityLogEntry{}
	if err := c.DoJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ActivityLogEntry{}
	}
	return items, nil
}

func (c *HTTPClient) Resellers(ctx context.Context) ([]models.Reseller, error) {
	items := []models.Reseller{}
	if err := c.DoJSON(ctx, http.MethodGet, "/api/admin/resellers", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Reseller{}
	}
	return items, nil
}

func (c *HTTPClient) CreateReseller(ctx context.Context, req models.CreateResellerRequest) error {
	return c.DoJSON(ctx, http.MethodPost, "/api/admin/resellers", req, nil)
}

func (c *HTTPClient) CreditReseller(ctx context.Context, id models.ID, amount float64) error {
	return c.DoJSON(ctx, http.MethodPost, idPath("/api/admin/resellers/%s/credit", id), models.AmountRequest{Amount: amount}, nil)
}

func (c *HTTPClient) DebitReseller(ctx context.Context, id models.ID, amount float64) error {
	return c.DoJSON(ctx, http.MethodPost, idPath("/api/admin/resellers/%s/debit", id), models.AmountRequest{Amount: amount}, nil)
}

func (c *HTTPClient) ToggleReseller(ctx context.Context, id models.ID) error {
	return c.DoJSON(ctx, http.MethodPost, idPath("/api/admin/resellers/%s/toggle", id), nil, nil)
}

func (c *HTTPClient) DeleteReseller(ctx context.Context, id models.ID) error {
	return c.DoJSON(ctx, http.MethodDelete, idPath("/api/admin/resellers/%s", id), nil, nil)
}
