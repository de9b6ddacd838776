package credentials

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "credentials.db")
	db, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	repo := newTestRepo(t)

	v, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyToken, []byte("tok")))

	v, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok"), v)
}

func TestSetOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyToken, []byte("old")))
	require.NoError(t, repo.Set(ctx, KeyToken, []byte("new")))

	v, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyToken, []byte("tok")))
	require.NoError(t, repo.Delete(ctx, KeyToken))

	v, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyToken, []byte("tok")))
	require.NoError(t, repo.Set(ctx, "other", []byte("x")))
	require.NoError(t, repo.Clear(ctx))

	for _, key := range []string{KeyToken, "other"} {
		v, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
}

func TestSaveSessionWritesBothKeys(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := &models.User{ID: "u1", Username: "maria"}
	require.NoError(t, repo.SaveSession(ctx, "tok", user))

	token, err := repo.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	blob, err := repo.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"maria"`)
}

func TestClearSessionRemovesBothKeys(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSession(ctx, "tok", &models.User{ID: "u1"}))
	require.NoError(t, repo.Set(ctx, "unrelated", []byte("keep")))

	require.NoError(t, repo.ClearSession(ctx))

	token, err := repo.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	user, err := repo.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.Nil(t, user)

	kept, err := repo.Get(ctx, "unrelated")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), kept, "session clear must not wipe other keys")
}

func TestTokenEmptyWhenAbsent(t *testing.T) {
	repo := newTestRepo(t)

	token, err := repo.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}
