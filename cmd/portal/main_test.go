package main

import (
	"context"
	"testing"

	"news_portal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		st, err := openStore(ctx, config.Storage{Driver: config.DriverMemory})
		require.NoError(t, err)
		defer st.Close()
		assert.NoError(t, st.Ping(ctx))
	})

	t.Run("badger", func(t *testing.T) {
		st, err := openStore(ctx, config.Storage{Driver: config.DriverBadger, Path: t.TempDir()})
		require.NoError(t, err)
		assert.NoError(t, st.Ping(ctx))
		require.NoError(t, st.Close())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := openStore(ctx, config.Storage{Driver: "mysql"})
		require.Error(t, err)
	})
}

func TestRootCommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"news", "notes", "migrate", "createuser"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestCreateUser(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.Storage{Driver: config.DriverBadger, Path: t.TempDir()}

	require.NoError(t, createUser(context.Background(), cfg, "alice", "s3cret"))
	err := createUser(context.Background(), cfg, "alice", "other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestCreateUser_RefusesMemoryStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.Storage{Driver: config.DriverMemory}

	err := createUser(context.Background(), cfg, "alice", "s3cret")
	require.ErrorIs(t, err, errEphemeralStorage)

	root := rootCmd()
	root.SetArgs([]string{"createuser", "-u", "alice", "-p", "s3cret"})
	root.SilenceUsage = true
	root.SilenceErrors = true
	assert.ErrorIs(t, root.Execute(), errEphemeralStorage)
}

func TestMigrate_SkipsNonPostgres(t *testing.T) {
	root := rootCmd()
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())
}
