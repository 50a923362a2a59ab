package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"news_portal/internal/auth"
	"news_portal/internal/config"
	"news_portal/internal/importer"
	"news_portal/internal/logger"
	"news_portal/internal/render"
	"news_portal/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	addr       string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "News and notes web applications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (JSON or YAML)")
	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "", "Listen address, overrides config")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level, overrides config")

	cmd.AddCommand(
		serveCmd(opts, server.AppNews, "Serve the news feed with comments"),
		serveCmd(opts, server.AppNotes, "Serve the personal notes app"),
		migrateCmd(opts),
		createUserCmd(opts),
	)
	return cmd
}

// load читает конфигурацию и настраивает логгер.
func (o *options) load() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(o.configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func serveCmd(opts *options, app server.App, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(app),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Log.Info("Application stopped")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg.Storage)
			if err != nil {
				return err
			}
			defer st.Close()

			html, err := render.NewHTML()
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}
			srv, err := server.New(cfg, st, app, render.Negotiate(html, render.JSON{}))
			if err != nil {
				return err
			}

			if app == server.AppNews && len(cfg.News.Feeds) > 0 {
				go importer.StartPolling(ctx, importer.New(st, nil), cfg.News.Feeds, cfg.PollEvery())
			}

			logger.Log.WithFields(logger.Fields{
				"app":     app,
				"storage": cfg.Storage.Driver,
			}).Info("Portal ready")
			return srv.Run(ctx)
		},
	}
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.DriverPostgres {
				logger.Log.Infof("Storage %q needs no migrations", cfg.Storage.Driver)
				return nil
			}
			return migratePostgres(cmd.Context(), cfg.Storage.DSN)
		},
	}
}

func createUserCmd(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Register a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return createUser(cmd.Context(), cfg, username, password)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

// errEphemeralStorage - createuser с драйвером memory: пользователь исчез бы вместе с процессом.
var errEphemeralStorage = errors.New("memory storage does not persist users; configure the badger or postgres driver")

func createUser(ctx context.Context, cfg *config.Config, username, password string) error {
	if cfg.Storage.Driver == config.DriverMemory {
		return errEphemeralStorage
	}
	st, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer st.Close()

	u, err := auth.NewService(st, nil, cfg.Auth.LoginURL).Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("create user %q: %w", username, err)
	}
	logger.Log.WithField("user_id", u.ID).Infof("User %q created", u.Username)
	return nil
}
