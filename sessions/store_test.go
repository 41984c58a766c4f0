package sessions_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/sessions"
	"github.com/jrsteele09/go-shop-client/storage"
	"github.com/jrsteele09/go-shop-client/storage/repofake"
	"github.com/jrsteele09/go-shop-client/token"
	"github.com/jrsteele09/go-shop-client/token/tokentest"
	"github.com/stretchr/testify/require"
)

const testEmail = "john.doe@example.com"

type testFixture struct {
	repo   *repofake.FakeStorageRepo
	minter *tokentest.Minter
	store  *sessions.Store
	now    time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		repo:   repofake.NewFakeStorageRepo(),
		minter: tokentest.NewMinter(),
		now:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	nowFunc := func() time.Time { return f.now }
	f.minter.NowFunc = nowFunc

	store, err := sessions.NewStore(f.repo, sessions.WithInspector(token.NewInspector(token.WithNowFunc(nowFunc))))
	require.NoError(t, err)
	f.store = store
	return f
}

func TestNewStore_RequiresRepo(t *testing.T) {
	_, err := sessions.NewStore(nil)
	require.Error(t, err)
}

func TestStore_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("created loading", func(t *testing.T) {
		f := setupTestFixture(t)
		sess := f.store.Session()
		require.True(t, sess.IsLoading)
		require.False(t, sess.IsAuthenticated)
		require.Equal(t, sessions.StateUninitialized, sess.State)
	})

	t.Run("no persisted token", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Initialize(ctx))

		sess := f.store.Session()
		require.Equal(t, sessions.StateAnonymous, sess.State)
		require.False(t, sess.IsLoading)
		require.False(t, sess.IsAuthenticated)
		require.Nil(t, sess.User)
	})

	t.Run("valid persisted token", func(t *testing.T) {
		f := setupTestFixture(t)
		raw := f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour)
		require.NoError(t, f.repo.Set(storage.KeyToken, raw))

		require.NoError(t, f.store.Initialize(ctx))

		sess := f.store.Session()
		require.Equal(t, sessions.StateAuthenticated, sess.State)
		require.True(t, sess.IsAuthenticated)
		require.False(t, sess.IsLoading)
		require.Equal(t, raw, sess.Token)
		require.Equal(t, testEmail, sess.Email())
	})

	t.Run("expired persisted token is purged", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.repo.Set(storage.KeyToken, f.minter.Token(t, testEmail, token.RoleBuyer, -time.Minute)))

		require.NoError(t, f.store.Initialize(ctx))

		sess := f.store.Session()
		require.Equal(t, sessions.StateAnonymous, sess.State)
		require.False(t, f.repo.Has(storage.KeyToken))
	})

	t.Run("undecodable persisted token is purged", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.repo.Set(storage.KeyToken, "garbage"))

		require.NoError(t, f.store.Initialize(ctx))
		require.Equal(t, sessions.StateAnonymous, f.store.Session().State)
		require.False(t, f.repo.Has(storage.KeyToken))
	})

	t.Run("runs once", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Initialize(ctx))
		require.NoError(t, f.repo.Set(storage.KeyToken, f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour)))

		require.NoError(t, f.store.Initialize(ctx))
		require.Equal(t, sessions.StateAnonymous, f.store.Session().State)
	})
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Initialize(ctx))
		raw := f.minter.Token(t, testEmail, token.RoleSeller, time.Hour)

		require.NoError(t, f.store.Login(ctx, raw))

		sess := f.store.Session()
		require.Equal(t, sessions.StateAuthenticated, sess.State)
		require.Equal(t, testEmail, sess.User.Email)
		require.Equal(t, token.RoleSeller, sess.User.Role)
		require.Equal(t, f.now.Add(time.Hour).Unix(), sess.User.ExpiresAt.Unix())

		persisted, err := f.repo.Get(storage.KeyToken)
		require.NoError(t, err)
		require.Equal(t, raw, persisted)
	})

	t.Run("expired token leaves state unchanged", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Initialize(ctx))
		before := f.store.Session()

		err := f.store.Login(ctx, f.minter.Token(t, testEmail, token.RoleBuyer, -time.Second))
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)
		require.Equal(t, before, f.store.Session())
		require.False(t, f.repo.Has(storage.KeyToken))
	})

	t.Run("expired token keeps existing login", func(t *testing.T) {
		f := setupTestFixture(t)
		raw := f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour)
		require.NoError(t, f.store.Login(ctx, raw))
		before := f.store.Session()

		require.Error(t, f.store.Login(ctx, f.minter.Token(t, "other@example.com", token.RoleBuyer, -time.Hour)))
		require.Equal(t, before, f.store.Session())
	})

	t.Run("empty token", func(t *testing.T) {
		f := setupTestFixture(t)
		err := f.store.Login(ctx, "")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("undecodable token", func(t *testing.T) {
		f := setupTestFixture(t)
		err := f.store.Login(ctx, "abc.def")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Initialize(ctx))
		f.repo.FailWrites = errors.New("disk full")

		err := f.store.Login(ctx, f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour))
		require.ErrorIs(t, err, apperrors.ErrStorage)
		require.Equal(t, sessions.StateAnonymous, f.store.Session().State)
	})
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	require.NoError(t, f.store.Login(ctx, f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour)))

	require.NoError(t, f.store.Logout())

	sess := f.store.Session()
	require.Equal(t, sessions.StateAnonymous, sess.State)
	require.Nil(t, sess.User)
	require.Empty(t, sess.Token)
	require.False(t, f.repo.Has(storage.KeyToken))
	require.Empty(t, f.store.Notice())
}

func TestStore_Expire(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	require.NoError(t, f.store.Login(ctx, f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour)))

	require.NoError(t, f.store.Expire())

	require.Equal(t, sessions.StateAnonymous, f.store.Session().State)
	require.Equal(t, apperrors.ErrSessionExpired.Error(), f.store.Notice())
	require.Empty(t, f.store.Notice(), "notice is read once")
}

func TestStore_Token(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Initialize(ctx))
		_, err := f.store.Token()
		require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	})

	t.Run("authenticated", func(t *testing.T) {
		f := setupTestFixture(t)
		raw := f.minter.Token(t, testEmail, token.RoleBuyer, time.Hour)
		require.NoError(t, f.store.Login(ctx, raw))

		tok, err := f.store.Token()
		require.NoError(t, err)
		require.Equal(t, raw, tok.AccessToken)
		require.Equal(t, "Bearer", tok.Type())
	})

	t.Run("expired since login", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Login(ctx, f.minter.Token(t, testEmail, token.RoleBuyer, time.Minute)))
		f.now = f.now.Add(2 * time.Minute)

		_, err := f.store.Token()
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
		require.Equal(t, sessions.StateAnonymous, f.store.Session().State)
		require.False(t, f.repo.Has(storage.KeyToken))
	})
}
