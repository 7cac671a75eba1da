package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "last_update")
	store := NewFileStore(path)

	t.Run("missing file starts at zero", func(t *testing.T) {
		offset, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Zero(t, offset)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, 123456))

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "123456", string(b))

		offset, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 123456, offset)

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, 123457))

		offset, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 123457, offset)
	})

	t.Run("trailing newline is accepted", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("42\n"), 0644))

		offset, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, offset)
	})

	t.Run("corrupt file fails", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("not a number"), 0644))

		_, err := store.Load(ctx)
		assert.Error(t, err)
	})
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "offset.db")

	store, err := NewSQLStore(DriverSQLite, dsn)
	require.NoError(t, err)

	offset, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, offset)

	require.NoError(t, store.Save(ctx, 10))
	require.NoError(t, store.Save(ctx, 11))

	offset, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, offset)

	var rows int
	require.NoError(t, store.QueryRow("SELECT COUNT(*) FROM offsets;").Scan(&rows))
	assert.Equal(t, 1, rows)

	require.NoError(t, store.Close())

	// Reopening keeps the saved offset and the existing table.
	store, err = NewSQLStore(DriverSQLite, dsn)
	require.NoError(t, err)
	defer store.Close()

	offset, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, offset)
}

func TestNewOffsetStore(t *testing.T) {
	setting := DefaultSetting()
	setting.OffsetFile = filepath.Join(t.TempDir(), "offset")

	store, err := NewOffsetStore(setting)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	setting.OffsetDriver = DriverSQLite
	setting.OffsetDSN = filepath.Join(t.TempDir(), "offset.db")
	store, err = NewOffsetStore(setting)
	require.NoError(t, err)
	require.IsType(t, &SQLStore{}, store)
	store.(*SQLStore).Close()

	setting.OffsetDriver = "redis"
	_, err = NewOffsetStore(setting)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewSQLStore("postgres", "dsn")
	assert.Error(t, err)
}
