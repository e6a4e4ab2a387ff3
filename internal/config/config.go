// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults shared by the binaries.
const (
	DefaultServerAddress   = "localhost:8080"
	DefaultListAddress     = "localhost:8000"
	DefaultExtensionURL    = "http://localhost:8000"
	DefaultDriver          = "postgres"
	DefaultLogLevel        = "info"
	DefaultSessionTTL      = 24 * time.Hour
	DefaultSyncTimeout     = 5 * time.Second
	DefaultCleanupInterval = 10 * time.Minute
)

// Duration is a time.Duration that reads "24h"-style strings from flags and config files.
type Duration time.Duration

// String implements flag.Value.
func (d *Duration) String() string { return time.Duration(*d).String() }

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalText lets JSON and TOML decoders accept duration strings.
func (d *Duration) UnmarshalText(b []byte) error { return d.Set(string(b)) }

// MarshalText is the inverse of UnmarshalText.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address" toml:"server_address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" toml:"database_dsn"`

	// DatabaseDriver is either "postgres" or "sqlite3".
	DatabaseDriver string `json:"database_driver" toml:"database_driver"`

	// ExtensionURL is the base URL of the extension-side list service.
	ExtensionURL string `json:"extension_url" toml:"extension_url"`

	// OpenAIKey enables the quiz and feedback endpoints.
	OpenAIKey string `json:"openai_api_key" toml:"openai_api_key"`

	// OpenAIModel overrides the default chat model.
	OpenAIModel string `json:"openai_model" toml:"openai_model"`

	// TLSCert and TLSKey switch the API server to HTTPS when both are set.
	TLSCert string `json:"tls_cert" toml:"tls_cert"`
	TLSKey  string `json:"tls_key" toml:"tls_key"`

	LogLevel        string   `json:"log_level" toml:"log_level"`
	SessionTTL      Duration `json:"session_ttl" toml:"session_ttl"`
	SyncTimeout     Duration `json:"sync_timeout" toml:"sync_timeout"`
	CleanupInterval Duration `json:"cleanup_interval" toml:"cleanup_interval"`

	// Config is the path to the Config file.
	Config string `json:"-" toml:"-"`
}

// Parse loads .env, then parses the command-line flags, the config file and
// environment variables, in that order of increasing precedence for the file and env.
// defaultAddr is the listening address used when nothing else sets one.
func Parse(defaultAddr string) (*Options, error) {
	_ = godotenv.Load()
	return load(os.Args[0], os.Args[1:], defaultAddr)
}

func load(name string, args []string, defaultAddr string) (*Options, error) {
	options := &Options{
		SessionTTL:      Duration(DefaultSessionTTL),
		SyncTimeout:     Duration(DefaultSyncTimeout),
		CleanupInterval: Duration(DefaultCleanupInterval),
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", defaultAddr, "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.DatabaseDriver, "driver", DefaultDriver, "database driver (postgres or sqlite3)")
	fs.StringVar(&options.ExtensionURL, "e", DefaultExtensionURL, "extension list service base URL")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&options.LogLevel, "log-level", DefaultLogLevel, "log level")
	fs.Var(&options.SessionTTL, "session-ttl", "session lifetime")
	fs.Var(&options.SyncTimeout, "sync-timeout", "timeout of extension list calls")
	fs.Var(&options.CleanupInterval, "cleanup-interval", "how often expired sessions are purged")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "path to the TLS certificate (enables HTTPS)")
	fs.StringVar(&options.TLSKey, "tls-key", "", "path to the TLS private key")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := loadFile(options.Config, options); err != nil {
		return nil, err
	}

	overrideFromEnv(options)

	if options.DatabaseDriver != "postgres" && options.DatabaseDriver != "sqlite3" {
		return nil, fmt.Errorf("unsupported database driver %q", options.DatabaseDriver)
	}
	if (options.TLSCert == "") != (options.TLSKey == "") {
		return nil, errors.New("tls-cert and tls-key must be set together")
	}
	return options, nil
}

// loadFile reads path into options when the file exists. Files ending in .toml
// are decoded as TOML, everything else as JSON.
func loadFile(path string, options *Options) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), options); err != nil {
			return fmt.Errorf("error while parsing config file: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func overrideFromEnv(options *Options) {
	for env, dst := range map[string]*string{
		"SERVER_ADDRESS":  &options.Port,
		"DATABASE_DSN":    &options.DatabaseDSN,
		"DATABASE_DRIVER": &options.DatabaseDriver,
		"EXTENSION_URL":   &options.ExtensionURL,
		"OPENAI_API_KEY":  &options.OpenAIKey,
		"OPENAI_MODEL":    &options.OpenAIModel,
		"LOG_LEVEL":       &options.LogLevel,
		"TLS_CERT_FILE":   &options.TLSCert,
		"TLS_KEY_FILE":    &options.TLSKey,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}
