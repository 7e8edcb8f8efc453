package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/localdb"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, username, role string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID:   7,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestStore_InitiallyAbsent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			tok, err := s.Get(context.Background())
			require.NoError(t, err)
			assert.Empty(t, tok)
		})
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "abc123"))

			tok, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "abc123", tok)

			require.NoError(t, s.Set(ctx, "xyz"))
			tok, err = s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "xyz", tok)
		})
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "abc123"))
			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx))

			tok, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Empty(t, tok)
		})
	}
}

func TestSQLiteStore_SetEmptyClears(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "abc123"))
	require.NoError(t, s.Set(ctx, ""))

	tok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSQLiteStore_PersistsOnlyTheToken(t *testing.T) {
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewSQLiteStore(db)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, makeToken(t, "admin", "admin", time.Now().Add(time.Hour))))
	require.NoError(t, s.Set(ctx, makeToken(t, "bob", "user", time.Now().Add(time.Hour))))

	var keys []string
	require.NoError(t, db.SelectContext(ctx, &keys, `SELECT key FROM metadata`))
	assert.Equal(t, []string{"access_token"}, keys)

	require.NoError(t, s.Clear(ctx))
	keys = nil
	require.NoError(t, db.SelectContext(ctx, &keys, `SELECT key FROM metadata`))
	assert.Empty(t, keys)
}

func TestSQLiteStore_ErrorWhenClosed(t *testing.T) {
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	s := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	_, err = s.Get(context.Background())
	require.ErrorContains(t, err, "failed to read session")

	err = s.Set(context.Background(), "abc")
	require.ErrorContains(t, err, "failed to save session")

	err = s.Clear(context.Background())
	require.ErrorContains(t, err, "failed to clear session")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "tok")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get(ctx)
		}()
	}
	wg.Wait()

	tok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	tok := makeToken(t, "admin", "admin", exp)

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, "admin", c.Username)
	assert.True(t, c.IsAdmin())
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp.Add(time.Minute)))
}

func TestParseClaims_Errors(t *testing.T) {
	_, err := ParseClaims("")
	require.ErrorIs(t, err, ErrNoSession)

	_, err = ParseClaims("not-a-jwt")
	require.ErrorContains(t, err, "failed to decode token")
}

func TestClaims_NoExpiry(t *testing.T) {
	c := &Claims{Username: "x"}
	assert.False(t, c.Expired(time.Now()))
	assert.False(t, c.IsAdmin())
}
