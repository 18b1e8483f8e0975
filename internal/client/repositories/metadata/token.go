package metadata

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/FRANCK359/smart-search-ai/internal/dbx"
)

const (
	// TokenKey is the metadata key the access token is stored under.
	TokenKey = "access_token"
	// TokenSavedAtKey records when TokenKey was last written, as unix seconds.
	TokenSavedAtKey = "access_token_saved_at"
)

// now is a seam for testing.
var now = time.Now

// TokenStore persists the session token. The token and its timestamp are
// always written and removed together in one transaction.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) LoadToken(ctx context.Context) (string, error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SavedAt reports when the current token was stored. ok is false when no
// token is held.
func (s *TokenStore) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, TokenSavedAtKey)
	if err != nil || v == nil {
		return time.Time{}, false, err
	}
	sec, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.Unix(sec, 0).UTC(), true, nil
}

func (s *TokenStore) SaveToken(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		stamp := strconv.FormatInt(now().Unix(), 10)
		return repo.Set(ctx, TokenSavedAtKey, []byte(stamp))
	})
}

func (s *TokenStore) ClearToken(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, TokenSavedAtKey)
	})
}
