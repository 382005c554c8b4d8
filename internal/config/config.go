// Package config loads client and server settings from command line flags,
// GOPHTASK_* environment variables and an optional config file.
// Flags take precedence over the environment, which takes precedence over the file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iudanet/gophtask/internal/logger"
)

// EnvPrefix is the prefix of environment variables, e.g. GOPHTASK_SERVER
const EnvPrefix = "GOPHTASK"

// ErrHelp is returned when -h/--help was requested
var ErrHelp = pflag.ErrHelp

// Client содержит настройки клиента gophtask
type Client struct {
	ServerURL       string
	DBPath          string
	Identity        string
	Token           string
	Passphrase      string
	PassphraseFile  string
	LogLevel        string
	Args            []string // команда и ее аргументы
	SyncBackoff     time.Duration
	MaxSyncAttempts uint64
	ShowVersion     bool
}

// Server содержит настройки сервера версий
type Server struct {
	Address     string
	DBPath      string
	JWTSecret   string
	LogLevel    string
	LogFormat   string
	LogFile     string
	Args        []string // подкоманда (serve, token) и ее аргументы
	TokenTTL    time.Duration
	RateWindow  time.Duration
	RateLimit   int // запросов на identity за RateWindow, 0 отключает ограничение
	ShowVersion bool
}

// LoadClient parses client flags from args (without the program name)
func LoadClient(args []string) (*Client, error) {
	fs := pflag.NewFlagSet("gophtask", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.String("config", "", "Path to config file (yaml, json or toml)")
	fs.Bool("version", false, "Show version information")
	fs.String("server", "http://localhost:8080", "Server URL")
	fs.String("db", "gophtask.db", "Path to local database")
	fs.String("identity", "", "Identity shared by all replicas that sync together")
	fs.String("token", "", "Access token issued by the server")
	fs.String("passphrase", "", "Encryption passphrase (not recommended, use env var or file)")
	fs.String("passphrase-file", "", "Path to file containing the encryption passphrase")
	fs.Uint64("max-sync-attempts", 0, "Maximum push attempts per sync (0 retries until accepted)")
	fs.Duration("sync-backoff", 100*time.Millisecond, "Initial delay between bounded sync attempts")
	fs.String("log-level", "warn", "Log level (debug, info, warn, error)")

	v, err := load(fs, args)
	if err != nil {
		return nil, err
	}

	if _, err := logger.ParseLevel(v.GetString("log-level")); err != nil {
		return nil, err
	}

	return &Client{
		ServerURL:       strings.TrimRight(v.GetString("server"), "/"),
		DBPath:          v.GetString("db"),
		Identity:        v.GetString("identity"),
		Token:           v.GetString("token"),
		Passphrase:      v.GetString("passphrase"),
		PassphraseFile:  v.GetString("passphrase-file"),
		MaxSyncAttempts: v.GetUint64("max-sync-attempts"),
		SyncBackoff:     v.GetDuration("sync-backoff"),
		LogLevel:        v.GetString("log-level"),
		ShowVersion:     v.GetBool("version"),
		Args:            fs.Args(),
	}, nil
}

// LoadServer parses server flags from args (without the program name)
func LoadServer(args []string) (*Server, error) {
	fs := pflag.NewFlagSet("gophtask-server", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.String("config", "", "Path to config file (yaml, json or toml)")
	fs.Bool("version", false, "Show version information")
	fs.String("address", ":8080", "HTTP listen address")
	fs.String("db", "gophtask-server.db", "Path to server database")
	fs.String("jwt-secret", "", "Secret used to sign access tokens")
	fs.Duration("token-ttl", 30*24*time.Hour, "Lifetime of issued access tokens")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-format", "text", "Log format (text, json)")
	fs.String("log-file", "", "Write logs to this file with rotation instead of stdout")
	fs.Int("rate-limit", 600, "Max requests per identity within rate-window (0 disables)")
	fs.Duration("rate-window", time.Minute, "Rate limit window")

	v, err := load(fs, args)
	if err != nil {
		return nil, err
	}

	cfg := &Server{
		Address:     v.GetString("address"),
		DBPath:      v.GetString("db"),
		JWTSecret:   v.GetString("jwt-secret"),
		TokenTTL:    v.GetDuration("token-ttl"),
		LogLevel:    v.GetString("log-level"),
		LogFormat:   v.GetString("log-format"),
		LogFile:     v.GetString("log-file"),
		RateLimit:   v.GetInt("rate-limit"),
		RateWindow:  v.GetDuration("rate-window"),
		ShowVersion: v.GetBool("version"),
		Args:        fs.Args(),
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	if cfg.RateLimit < 0 || (cfg.RateLimit > 0 && cfg.RateWindow <= 0) {
		return nil, fmt.Errorf("invalid rate limit %d per %s", cfg.RateLimit, cfg.RateWindow)
	}

	return cfg, nil
}

// load разбирает флаги и объединяет их с окружением и файлом конфигурации
func load(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}
