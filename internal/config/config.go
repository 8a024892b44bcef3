// Package config resolves runtime options for the didyoueat binary.
//
// These are process options (where state lives, how often to poll), not the
// user's persisted settings, which belong to internal/state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/monitor"
	"github.com/didyoueat/didyoueat/internal/state"
)

// EnvPrefix is prepended to every environment override, e.g. DIDYOUEAT_STORE.
const EnvPrefix = "DIDYOUEAT"

// Keys shared by flags, env, and config.yaml.
const (
	KeyDataDir          = "data-dir"
	KeyStore            = "store"
	KeyPassphrase       = "passphrase"
	KeyPollInterval     = "poll-interval"
	KeyWindow           = "window"
	KeyDebounceFraction = "debounce-fraction"
	KeyListen           = "listen"
	KeyOpenSMS          = "open-sms"
	KeyLogLevel         = "log-level"
	KeyLogJSON          = "log-json"
	KeyRateLimit        = "rate-limit"
)

// Defaults.
const (
	DefaultPollInterval = 15 * time.Second
	DefaultListen       = ":8787"
	DefaultRateLimit    = 5.0
	DefaultLogLevel     = "info"
	FileName            = "config.yaml"
)

// Options is the resolved runtime configuration.
type Options struct {
	DataDir          string        `mapstructure:"data-dir"`
	Store            string        `mapstructure:"store"`
	Passphrase       string        `mapstructure:"passphrase"`
	PollInterval     time.Duration `mapstructure:"poll-interval"`
	Window           time.Duration `mapstructure:"window"`
	DebounceFraction float64       `mapstructure:"debounce-fraction"`
	Listen           string        `mapstructure:"listen"`
	OpenSMS          bool          `mapstructure:"open-sms"`
	LogLevel         string        `mapstructure:"log-level"`
	LogJSON          bool          `mapstructure:"log-json"`
	// RateLimit is requests per second per client on the HTTP API.
	RateLimit float64 `mapstructure:"rate-limit"`
}

// DefaultDataDir returns the default data directory
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".didyoueat"
	}
	return filepath.Join(home, ".didyoueat")
}

// New returns a viper instance with defaults and env overrides registered.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDataDir, DefaultDataDir())
	v.SetDefault(KeyStore, state.BackendFile)
	v.SetDefault(KeyPassphrase, "")
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyWindow, monitor.DefaultWindow)
	v.SetDefault(KeyDebounceFraction, monitor.DefaultDebounceFraction)
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyOpenSMS, true)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyRateLimit, DefaultRateLimit)
	return v
}

// LoadDotEnv loads a .env file into the process environment if it exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ReadFile merges <data-dir>/config.yaml into v when present.
func ReadFile(v *viper.Viper) error {
	v.SetConfigFile(filepath.Join(v.GetString(KeyDataDir), FileName))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load resolves Options from v and validates them.
func Load(v *viper.Viper) (*Options, error) {
	opts := &Options{
		DataDir:          v.GetString(KeyDataDir),
		Store:            strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
		Passphrase:       v.GetString(KeyPassphrase),
		PollInterval:     v.GetDuration(KeyPollInterval),
		Window:           v.GetDuration(KeyWindow),
		DebounceFraction: v.GetFloat64(KeyDebounceFraction),
		Listen:           v.GetString(KeyListen),
		OpenSMS:          v.GetBool(KeyOpenSMS),
		LogLevel:         v.GetString(KeyLogLevel),
		LogJSON:          v.GetBool(KeyLogJSON),
		RateLimit:        v.GetFloat64(KeyRateLimit),
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks option ranges.
func (o *Options) Validate() error {
	switch {
	case o.DataDir == "":
		return fmt.Errorf("%w: data dir is empty", apperrors.ErrInvalidConfig)
	case o.Store != state.BackendFile && o.Store != state.BackendSQLite:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownStore, o.Store)
	case o.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", apperrors.ErrInvalidConfig)
	case o.Window <= 0:
		return fmt.Errorf("%w: window must be positive", apperrors.ErrInvalidConfig)
	case o.DebounceFraction <= 0 || o.DebounceFraction > 1:
		return fmt.Errorf("%w: debounce fraction must be in (0, 1]", apperrors.ErrInvalidConfig)
	case o.RateLimit <= 0:
		return fmt.Errorf("%w: rate limit must be positive", apperrors.ErrInvalidConfig)
	}
	return nil
}

// Monitor returns the monitor configuration.
func (o *Options) Monitor() monitor.Config {
	return monitor.Config{Window: o.Window, DebounceFraction: o.DebounceFraction}
}

// StoreOptions returns the state store options.
func (o *Options) StoreOptions() state.Options {
	return state.Options{Backend: o.Store, Dir: o.DataDir, Passphrase: o.Passphrase}
}
