package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"news_portal/internal/config"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func TestLoadConfig_JSON(t *testing.T) {
	json := `{
		"addr": ":9000",
		"storage": {"driver": "postgres", "dsn": "postgres://u:p@localhost/portal"},
		"news": {
			"page_size": 5,
			"feeds": ["https://example.com/rss"],
			"poll_interval": 10
		}
	}`
	path := writeTempConfig(t, "config.json", json)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, 5, cfg.News.PageSize)
	require.Equal(t, []string{"https://example.com/rss"}, cfg.News.Feeds)
	require.Equal(t, 10*time.Minute, cfg.PollEvery())

	// незаданные поля берутся из Default
	require.Equal(t, "Не ругайтесь!", cfg.News.Warning)
	require.Equal(t, []string{"редиска", "негодяй"}, cfg.News.BadWords)
	require.Equal(t, "/auth/login/", cfg.Auth.LoginURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	yml := `
addr: ":8081"
log_level: debug
storage:
  driver: badger
  path: /var/lib/portal
news:
  bad_words: [spam]
  fold_case: true
notes:
  slug_warning: " taken"
`
	path := writeTempConfig(t, "config.yaml", yml)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, config.DriverBadger, cfg.Storage.Driver)
	require.Equal(t, []string{"spam"}, cfg.News.BadWords)
	require.True(t, cfg.News.FoldCase)
	require.Equal(t, " taken", cfg.Notes.SlugWarning)
	require.Equal(t, 10, cfg.News.PageSize)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := config.LoadConfig("/nonexistent/config.json")
	require.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{ invalid json }`)
	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(cfg *config.Config) {},
		},
		{
			name:    "zero page size",
			mutate:  func(cfg *config.Config) { cfg.News.PageSize = 0 },
			wantErr: "page size must be ≥ 1",
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *config.Config) { cfg.Storage.Driver = "mysql" },
			wantErr: "unknown storage driver",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(cfg *config.Config) { cfg.Storage.Driver = config.DriverPostgres },
			wantErr: "requires dsn",
		},
		{
			name:    "badger without path",
			mutate:  func(cfg *config.Config) { cfg.Storage.Driver = config.DriverBadger },
			wantErr: "requires path",
		},
		{
			name: "short poll interval",
			mutate: func(cfg *config.Config) {
				cfg.News.Feeds = []string{"https://example.com/rss"}
				cfg.News.PollInterval = 1
			},
			wantErr: "poll interval must be ≥ 5",
		},
		{
			name: "invalid feed url",
			mutate: func(cfg *config.Config) {
				cfg.News.Feeds = []string{"not-a-url"}
			},
			wantErr: "invalid RSS URL",
		},
		{
			name:    "relative login url",
			mutate:  func(cfg *config.Config) { cfg.Auth.LoginURL = "auth/login/" },
			wantErr: "invalid login url",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
