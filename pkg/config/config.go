// Package config loads ovlmountd's configuration with the precedence
// environment variable (OVLMOUNT_*) > YAML file > defaults. No
// command-line flag overrides individual settings; the CLI only names the
// YAML file.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// BackendConfig describes one composed backend (base or overlay).
type BackendConfig struct {
	Scheme string            `mapstructure:"scheme" yaml:"scheme"`
	Params map[string]string `mapstructure:"params" yaml:"params"`
}

// Config is the top-level ovlmountd configuration.
type Config struct {
	BindAddr   string        `mapstructure:"bind_addr" yaml:"bind_addr"`
	MountPoint string        `mapstructure:"mount_point" yaml:"mount_point"`
	Policy     string        `mapstructure:"policy" yaml:"policy"`
	Base       BackendConfig `mapstructure:"base" yaml:"base"`
	Overlay    BackendConfig `mapstructure:"overlay" yaml:"overlay"`
	UID        uint32        `mapstructure:"uid" yaml:"uid"`
	GID        uint32        `mapstructure:"gid" yaml:"gid"`

	ControlPlane ControlPlaneConfig `mapstructure:"control_plane" yaml:"control_plane"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
}

// ControlPlaneConfig configures the optional GraphQL management API.
type ControlPlaneConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	HTTPAddr string `mapstructure:"http_addr" yaml:"http_addr"`
}

// LoggingConfig configures internal/logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Load reads configuration from configFile (if non-empty), environment
// variables prefixed OVLMOUNT_, and applies defaults for anything unset.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OVLMOUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about, so bind
	// every scalar key explicitly for Unmarshal to see env-only values.
	for _, key := range []string{
		"bind_addr", "mount_point", "policy", "uid", "gid",
		"base.scheme", "overlay.scheme",
		"control_plane.enabled", "control_plane.http_addr",
		"logging.level", "logging.format", "logging.output",
	} {
		_ = v.BindEnv(key)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}
