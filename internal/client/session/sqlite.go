package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dropanalyzer/internal/common"
	"github.com/dmitrijs2005/dropanalyzer/internal/dbx"
)

// SQLiteStore persists the token in the metadata table so it survives
// between CLI invocations. It owns the single access_token row; every call
// goes to the database.
type SQLiteStore struct {
	repo metadata.Repository
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{repo: metadata.NewSQLiteRepository(db)}
}

func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	token, _, err := s.repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	if err := s.repo.Set(ctx, common.AccessTokenKey, token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.AccessTokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
