package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bfadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/dbx"
	"github.com/dmitrijs2005/bfadmin/internal/netx"
	"github.com/golang-jwt/jwt/v5"
)

const savedAtKey = "bf_token_saved_at"

// Store is the durable session store.
type Store struct {
	db     *sql.DB
	origin string
}

// NewStore binds a Store to the backend at baseURL.
func NewStore(db *sql.DB, baseURL string) (*Store, error) {
	origin, err := netx.Origin(baseURL)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, origin: origin}, nil
}

// Origin is the namespace the token is stored under.
func (s *Store) Origin() string {
	return s.origin
}

func (s *Store) tokens(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db, s.origin)
}

// Save persists token together with the time it was saved.
func (s *Store) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.tokens(tx)
		if err := repo.Set(ctx, common.TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// Get returns the stored token; ok is false when none is stored.
func (s *Store) Get(ctx context.Context) (string, bool, error) {
	v, err := s.tokens(s.db).Get(ctx, common.TokenKey)
	if err != nil {
		return "", false, err
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

// Clear erases the token of the bound origin along with its bookkeeping.
func (s *Store) Clear(ctx context.Context) error {
	return s.tokens(s.db).Clear(ctx)
}

// Info is what Describe knows about the stored token.
type Info struct {
	Present bool
	Opaque  bool
	Subject string
	Expires time.Time
	SavedAt time.Time
}

// Describe peeks at the stored token without verifying it. Expires is
// informational only; the backend remains the only judge of validity.
func (s *Store) Describe(ctx context.Context) (Info, error) {
	values, err := s.tokens(s.db).List(ctx)
	if err != nil {
		return Info{}, err
	}
	token := string(values[common.TokenKey])
	if token == "" {
		return Info{}, nil
	}

	info := Info{Present: true}

	if ts, err := time.Parse(time.RFC3339, string(values[savedAtKey])); err == nil {
		info.SavedAt = ts
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		info.Opaque = true
		return info, nil
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.Expires = exp.Time
	}
	return info, nil
}

// BaseURLStore keeps the manual backend URL override. It is not scoped to
// an origin since it decides the origin.
type BaseURLStore struct {
	repo metadata.Repository
}

func NewBaseURLStore(db *sql.DB) *BaseURLStore {
	return &BaseURLStore{repo: metadata.NewSQLiteRepository(db, "")}
}

func (b *BaseURLStore) Get(ctx context.Context) (string, error) {
	v, err := b.repo.Get(ctx, common.BackendURLKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Save validates and stores a manual override.
func (b *BaseURLStore) Save(ctx context.Context, baseURL string) error {
	if _, err := netx.Origin(baseURL); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return b.repo.Set(ctx, common.BackendURLKey, []byte(baseURL))
}

func (b *BaseURLStore) Clear(ctx context.Context) error {
	return b.repo.Delete(ctx, common.BackendURLKey)
}
