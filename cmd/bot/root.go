package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eliseohh/ytbot/internal/bot"
	"github.com/eliseohh/ytbot/internal/config"
	"github.com/eliseohh/ytbot/internal/history"
	"github.com/eliseohh/ytbot/internal/logging"
	"github.com/eliseohh/ytbot/internal/paginator"
	"github.com/eliseohh/ytbot/internal/youtube"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	log     *zap.Logger
	level   zap.AtomicLevel
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "bot",
		Short:         "Telegram bot for searching YouTube and exporting playlists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBot(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file path (optional).")
	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error.")
	cmd.PersistentFlags().String("log-format", "", "Logging format: console|json.")

	cmd.AddCommand(newDumpCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	_ = v.BindPFlag("logging.level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", cmd.Flags().Lookup("log-format"))

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, level, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	a.v, a.cfg, a.log, a.level = v, cfg, log, level
	return nil
}

func (a *app) newYouTube() *youtube.Client {
	return youtube.NewClient(youtube.Config{
		BaseURL: a.cfg.YouTube.BaseURL,
		APIKey:  a.cfg.YouTube.APIKey,
		Timeout: a.cfg.YouTube.RequestTimeout,
		Logger:  a.log.Named("youtube"),
	})
}

func (a *app) runBot(ctx context.Context) error {
	if a.cfg.Telegram.Token == "" {
		return errors.New("telegram.token is required (set YTBOT_TELEGRAM_TOKEN)")
	}
	if a.cfg.YouTube.APIKey == "" {
		a.log.Warn("youtube.api_key is empty, requests will likely be rejected")
	}

	var store *history.Store
	if a.cfg.History.Path != "" {
		db, err := history.NewDB(a.cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()
		store = history.NewStore(db)
	}

	pages := paginator.NewRegistry(a.log.Named("pager"), a.cfg.Paginator.IdleTimeout)

	b, err := bot.New(bot.Config{
		Token:        a.cfg.Telegram.Token,
		PollTimeout:  a.cfg.Telegram.PollTimeout,
		MaxResults:   a.cfg.YouTube.MaxResults,
		HistoryLimit: a.cfg.History.Limit,
	}, a.newYouTube(), pages, store, a.log.Named("bot"))
	if err != nil {
		return err
	}

	if a.cfgFile != "" {
		config.Watch(a.v, func(cfg config.Config) {
			if lvl, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
				a.level.SetLevel(lvl)
			}
			pages.SetIdleTimeout(cfg.Paginator.IdleTimeout)
			a.log.Info("config reloaded",
				zap.String("level", cfg.Logging.Level),
				zap.Duration("idle_timeout", cfg.Paginator.IdleTimeout))
		}, func(err error) {
			a.log.Warn("config reload rejected", zap.Error(err))
		})
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return b.Run(ctx)
}
