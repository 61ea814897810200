// Package config loads bot settings from defaults, an optional config file
// and YTBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const EnvPrefix = "YTBOT"

type Config struct {
	Telegram  TelegramConfig
	YouTube   YouTubeConfig
	Paginator PaginatorConfig
	History   HistoryConfig
	Logging   LoggingConfig
}

type TelegramConfig struct {
	Token       string
	PollTimeout time.Duration
}

type YouTubeConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	// MaxResults caps the amount a user may request in one search.
	MaxResults int
}

type PaginatorConfig struct {
	IdleTimeout time.Duration
}

type HistoryConfig struct {
	// Path of the SQLite file. Empty disables history.
	Path  string
	Limit int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("telegram.poll_timeout", 10*time.Second)

	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3/")
	v.SetDefault("youtube.request_timeout", 15*time.Second)
	v.SetDefault("youtube.max_results", 250)

	v.SetDefault("paginator.idle_timeout", 120*time.Second)

	v.SetDefault("history.path", "./ytbot.db")
	v.SetDefault("history.limit", 25)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// New returns a viper instance with defaults and environment binding. When
// cfgFile is set it is read as well.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	cfgFile = strings.TrimSpace(cfgFile)
	if cfgFile == "" {
		return v, nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return v, nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Telegram: TelegramConfig{
			Token:       strings.TrimSpace(v.GetString("telegram.token")),
			PollTimeout: v.GetDuration("telegram.poll_timeout"),
		},
		YouTube: YouTubeConfig{
			APIKey:         strings.TrimSpace(v.GetString("youtube.api_key")),
			BaseURL:        strings.TrimSpace(v.GetString("youtube.base_url")),
			RequestTimeout: v.GetDuration("youtube.request_timeout"),
			MaxResults:     v.GetInt("youtube.max_results"),
		},
		Paginator: PaginatorConfig{
			IdleTimeout: v.GetDuration("paginator.idle_timeout"),
		},
		History: HistoryConfig{
			Path:  strings.TrimSpace(v.GetString("history.path")),
			Limit: v.GetInt("history.limit"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.YouTube.MaxResults < 1 {
		errs = append(errs, fmt.Errorf("youtube.max_results must be at least 1, got %d", c.YouTube.MaxResults))
	}
	if c.YouTube.RequestTimeout <= 0 {
		errs = append(errs, errors.New("youtube.request_timeout must be positive"))
	}
	if c.Paginator.IdleTimeout <= 0 {
		errs = append(errs, errors.New("paginator.idle_timeout must be positive"))
	}
	if c.Telegram.PollTimeout <= 0 {
		errs = append(errs, errors.New("telegram.poll_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Watch reloads the config file on change and hands valid results to
// onChange. Invalid edits are reported through onError and otherwise ignored.
func Watch(v *viper.Viper, onChange func(Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
