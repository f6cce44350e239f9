package client

import (
	"context"

	"github.com/dmitrijs2005/bfadmin/internal/client/models"
)

// Client is the backend API used by the services layer.
type Client interface {
	BaseURL() string
	Ping(ctx context.Context) error

	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.User, error)

	Stats(ctx context.Context) (*models.Stats, error)
	Pricing(ctx context.Context) (models.Pricing, error)

	Whitelists(ctx context.Context) ([]models.WhitelistEntry, error)
	CreateWhitelist(ctx context.Context, req models.CreateWhitelistRequest) error
	DeleteWhitelist(ctx context.Context, id models.ID) error
	ToggleWhitelistPause(ctx context.Context, id models.ID) error

	ActivityLogs(ctx context.Context) ([]models.ActivityLogEntry, error)
	AdminLogs(ctx context.Context, limit int) ([]models.ActivityLogEntry, error)

	Resellers(ctx context.Context) ([]models.Reseller, error)
	CreateReseller(ctx context.Context, req models.CreateResellerRequest) error
	CreditReseller(ctx context.Context, id models.ID, amount float64) error
	DebitReseller(ctx context.Context, id models.ID, amount float64) error
	ToggleReseller(ctx context.Context, id models.ID) error
	DeleteReseller(ctx context.Context, id models.ID) error
}

// TokenStore is where HTTPClient reads the bearer credential from.
type TokenStore interface {
	Get(ctx context.Context) (string, bool, error)
}
