package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage checks the contract every backend must honour.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, KeyCart, `[{"id":1}]`))
	v, found, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":1}]`, v)

	require.NoError(t, s.Set(ctx, KeyCart, `[]`))
	v, _, err = s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Remove(ctx, KeyCart))
	_, found, err = s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	// Removing an absent key is not an error.
	require.NoError(t, s.Remove(ctx, KeyCart))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestMemoryStorage_CancelledContext(t *testing.T) {
	s := NewMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Set(ctx, KeyUsers, "[]")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStorage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStorage(client, "test")
	defer s.Close()

	exerciseStorage(t, s)

	t.Run("keys are namespaced", func(t *testing.T) {
		require.NoError(t, s.Set(context.Background(), KeyOrders, "[]"))
		got, err := mr.Get("test:orders")
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
		assert.False(t, mr.Exists("orders"))
	})
}

func TestPostgresStorage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStorage(db, "storefront_kv", "ns")
	ctx := context.Background()

	getQ := regexp.QuoteMeta(`SELECT value FROM "storefront_kv" WHERE key = $1`)
	upsertQ := regexp.QuoteMeta(`INSERT INTO "storefront_kv" (key, value, updated_at) VALUES ($1, $2, NOW())`)
	deleteQ := regexp.QuoteMeta(`DELETE FROM "storefront_kv" WHERE key = $1`)

	t.Run("get missing key", func(t *testing.T) {
		mock.ExpectQuery(getQ).WithArgs("ns:cart").WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, found, err := s.Get(ctx, KeyCart)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set then get", func(t *testing.T) {
		mock.ExpectExec(upsertQ).WithArgs("ns:cart", "[]").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(getQ).WithArgs("ns:cart").WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[]"))

		require.NoError(t, s.Set(ctx, KeyCart, "[]"))
		v, found, err := s.Get(ctx, KeyCart)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "[]", v)
	})

	t.Run("remove", func(t *testing.T) {
		mock.ExpectExec(deleteQ).WithArgs("ns:user").WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, s.Remove(ctx, KeyCurrentUser))
	})

	t.Run("query error is surfaced", func(t *testing.T) {
		mock.ExpectQuery(getQ).WithArgs("ns:orders").WillReturnError(errors.New("connection reset"))

		_, found, err := s.Get(ctx, KeyOrders)
		assert.Error(t, err)
		assert.False(t, found)
	})

	t.Run("ensure schema", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "storefront_kv"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.NoError(t, s.EnsureSchema(ctx))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAndSaveJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	t.Run("absent key keeps default", func(t *testing.T) {
		dst := []string{"default"}
		found, err := LoadJSON(ctx, s, KeyUsers, &dst)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, []string{"default"}, dst)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, SaveJSON(ctx, s, KeyUsers, []string{"a", "b"}))
		var dst []string
		found, err := LoadJSON(ctx, s, KeyUsers, &dst)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []string{"a", "b"}, dst)
	})

	t.Run("corrupt value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyOrders, "{not json"))
		var dst []string
		_, err := LoadJSON(ctx, s, KeyOrders, &dst)
		assert.ErrorIs(t, err, ErrCorruptValue)
	})
}
