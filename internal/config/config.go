// Package config loads nfsshell's runtime defaults from
// ~/.config/nfsshell/config.yaml (or $NFSSHELL_CONFIG), environment
// variables, and built-in fallbacks, following an env > file > defaults
// precedence chain. It carries no persistence, telemetry, or
// control-plane sections: just the handful of values a REPL session
// needs before the user starts typing commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/marmos91/nfsshell/internal/bytesize"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Config is nfsshell's runtime configuration.
type Config struct {
	// Logging controls log output behavior (internal/logger.Config).
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// CallTimeout bounds the host binding made at startup for a host
	// given on the command line. Calls issued from REPL commands are
	// not bounded by it; they use each channel's rpc.DefaultTimeout.
	CallTimeout time.Duration `mapstructure:"call_timeout" validate:"required,gt=0" yaml:"call_timeout"`

	// DefaultUID/DefaultGID seed the session's AUTH_UNIX credentials
	// before any `uid`/`gid` command is issued.
	DefaultUID uint32 `mapstructure:"default_uid" yaml:"default_uid"`
	DefaultGID uint32 `mapstructure:"default_gid" yaml:"default_gid"`

	// Transport is validated as "tcp", "udp", or "auto" and defaults to
	// "auto", but no dial path reads it: session.dialNFS always tries
	// TCP and falls back to UDP unless a mount command forces one with
	// -T/-U.
	Transport string `mapstructure:"transport" validate:"required,oneof=tcp udp auto" yaml:"transport"`

	// PortmapHost is accepted in the config file, but no dial path reads
	// it: the portmapper is always contacted on the bound host.
	PortmapHost string `mapstructure:"portmap_host" yaml:"portmap_host,omitempty"`

	// Metrics controls the optional debug metrics listener
	// (internal/metrics), off by default.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// MaxTransferSize caps the read/write chunk size negotiated with a
	// server's FSINFO reply (e.g. "8Ki", "1MB"). Zero means accept
	// whatever the server advertises.
	MaxTransferSize bytesize.ByteSize `mapstructure:"max_transfer_size" yaml:"max_transfer_size,omitempty"`
}

// LoggingConfig controls internal/logger's behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig configures the optional Prometheus debug listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr,omitempty"`
}

var validate = validator.New()

// Load reads configuration from configPath (or the default location if
// empty), overlaying environment variables and defaults per the
// precedence in the package doc. A missing config file is not an error:
// the returned Config is the built-in defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if !found {
		return cfg, nil
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.TextUnmarshallerHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns nfsshell's built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stderr",
		},
		CallTimeout: 15 * time.Second,
		Transport:   "auto",
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	if cfg.Transport == "" {
		cfg.Transport = "auto"
	}
}

// setupViper wires environment variable support (NFSSHELL_* prefix) and
// config file search.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("NFSSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	if env := os.Getenv("NFSSHELL_CONFIG"); env != "" {
		v.SetConfigFile(env)
		return
	}

	v.AddConfigPath(ConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook converts config-file duration strings ("15s",
// "2m") into time.Duration. Byte sizes such as max_transfer_size
// ("8Ki", "1MB") are decoded by mapstructure's TextUnmarshaler hook,
// which Load composes with this one, through ByteSize.UnmarshalText.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/nfsshell, or ~/.config/nfsshell,
// or "." as a last resort.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nfsshell")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "nfsshell")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
