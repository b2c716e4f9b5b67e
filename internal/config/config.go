// Package config loads picrypt settings from an optional YAML file and the
// command line.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/provide-io/picrypt/internal/appdir"
	"github.com/provide-io/picrypt/pkg/keysource"
	"github.com/provide-io/picrypt/pkg/logging"
)

// Flag names registered by RegisterFlags.
const (
	FlagConfig    = "config"
	FlagKeySource = "key-source"
	FlagLogLevel  = "log-level"
	FlagLogJSON   = "log-json"
	FlagStaging   = "staging"
)

// ConfigName is the file name (without extension) searched for when no
// --config is given.
const ConfigName = "picrypt"

type Config struct {
	KeySource  string `mapstructure:"key_source"`
	LogLevel   string `mapstructure:"log_level"`
	LogJSON    bool   `mapstructure:"log_json"`
	Staging    bool   `mapstructure:"staging"`
	ConfigFile string `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		KeySource: keysource.DefaultPath,
		LogLevel:  logging.DefaultLevel,
		LogJSON:   false,
		Staging:   true,
	}
}

// RegisterFlags adds the config flags to fs with DefaultConfig values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.String(FlagConfig, "", "Path to config file (default: ./picrypt.yaml, then the user config dir)")
	fs.StringP(FlagKeySource, "k", d.KeySource, "Key source file; every decimal digit in it is a key digit")
	fs.String(FlagLogLevel, d.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.Bool(FlagLogJSON, d.LogJSON, "Emit logs as JSON")
	fs.Bool(FlagStaging, d.Staging, "Write output to a temp file and rename it into place on success")
}

// Load resolves the configuration: flags set on the command line win over
// the config file, which wins over defaults. A missing config file is only
// an error when it was named explicitly.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("key_source", cfg.KeySource)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_json", cfg.LogJSON)
	v.SetDefault("staging", cfg.Staging)

	bindings := map[string]string{
		"key_source": FlagKeySource,
		"log_level":  FlagLogLevel,
		"log_json":   FlagLogJSON,
		"staging":    FlagStaging,
	}
	for key, name := range bindings {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	explicit := ""
	if f := fs.Lookup(FlagConfig); f != nil {
		explicit = f.Value.String()
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(appdir.Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	return cfg, nil
}

// KeySourcePath returns the key source path after looking it up in the
// user config dir when it is not present in the working directory.
func (c *Config) KeySourcePath() string {
	return appdir.Resolve(c.KeySource)
}
