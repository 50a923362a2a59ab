package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config хранит настройки портала: адрес, хранилище, аутентификацию и оба приложения.
type Config struct {
	Addr     string  `json:"addr" yaml:"addr"`
	LogLevel string  `json:"log_level" yaml:"log_level"`
	Storage  Storage `json:"storage" yaml:"storage"`
	Auth     Auth    `json:"auth" yaml:"auth"`
	News     News    `json:"news" yaml:"news"`
	Notes    Notes   `json:"notes" yaml:"notes"`
}

// Storage выбирает бэкенд хранилища.
type Storage struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Path   string `json:"path" yaml:"path"`
}

type Auth struct {
	LoginURL      string `json:"login_url" yaml:"login_url"`
	SessionCookie string `json:"session_cookie" yaml:"session_cookie"`
	// SessionTTL в часах.
	SessionTTL int `json:"session_ttl" yaml:"session_ttl"`
}

// News настраивает ленту новостей, фильтр комментариев и импорт RSS.
type News struct {
	PageSize     int      `json:"page_size" yaml:"page_size"`
	BadWords     []string `json:"bad_words" yaml:"bad_words"`
	Warning      string   `json:"warning" yaml:"warning"`
	FoldCase     bool     `json:"fold_case" yaml:"fold_case"`
	Feeds        []string `json:"feeds" yaml:"feeds"`
	PollInterval int      `json:"poll_interval" yaml:"poll_interval"`
}

type Notes struct {
	SlugWarning string `json:"slug_warning" yaml:"slug_warning"`
}

// Default возвращает конфигурацию со значениями исходных приложений.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		LogLevel: "info",
		Storage:  Storage{Driver: DriverMemory},
		Auth: Auth{
			LoginURL:      "/auth/login/",
			SessionCookie: "sessionid",
			SessionTTL:    24 * 14,
		},
		News: News{
			PageSize:     10,
			BadWords:     []string{"редиска", "негодяй"},
			Warning:      "Не ругайтесь!",
			PollInterval: 5,
		},
		Notes: Notes{
			SlugWarning: " - такой slug уже существует, придумайте уникальное значение!",
		},
	}
}

// SessionTTL переводит срок жизни сессии в time.Duration.
func (cfg *Config) SessionTTL() time.Duration {
	return time.Duration(cfg.Auth.SessionTTL) * time.Hour
}

// PollEvery переводит интервал опроса лент (в минутах) в time.Duration.
func (cfg *Config) PollEvery() time.Duration {
	return time.Duration(cfg.News.PollInterval) * time.Minute
}

// Validate проверяет размер страницы, хранилище и RSS-ленты.
func (cfg *Config) Validate() error {
	if cfg.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if cfg.News.PageSize < 1 {
		return errors.New("page size must be ≥ 1")
	}
	if cfg.News.Warning == "" {
		return errors.New("news warning must not be empty")
	}
	if cfg.Auth.LoginURL == "" || !strings.HasPrefix(cfg.Auth.LoginURL, "/") {
		return fmt.Errorf("invalid login url: %q", cfg.Auth.LoginURL)
	}
	if cfg.Auth.SessionCookie == "" {
		return errors.New("session cookie name must not be empty")
	}
	if cfg.Auth.SessionTTL < 1 {
		return errors.New("session ttl must be ≥ 1 hour")
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Storage.DSN == "" {
			return errors.New("postgres storage requires dsn")
		}
	case DriverBadger:
		if cfg.Storage.Path == "" {
			return errors.New("badger storage requires path")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	if len(cfg.News.Feeds) > 0 && cfg.News.PollInterval < 5 {
		return errors.New("poll interval must be ≥ 5 minutes")
	}
	for _, u := range cfg.News.Feeds {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	return nil
}

// LoadConfig читает файл по пути path поверх значений по умолчанию.
// Формат определяется расширением: .yaml/.yml или JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}
