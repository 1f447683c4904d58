// Package config loads runtime settings from defaults, an optional YAML file,
// EQUITYSITE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "EQUITYSITE"

	configName = "equitysite"
	configType = "yaml"

	KeyAddr          = "addr"
	KeyDBPath        = "db_path"
	KeyContentFile   = "content_file"
	KeyTemplatesDir  = "templates_dir"
	KeySessionTTL    = "session_ttl"
	KeySweepInterval = "sweep_interval"
	KeyThemeVariant  = "theme.variant"
	KeyShutdownGrace = "shutdown_grace"
)

// Config is the resolved runtime configuration.
type Config struct {
	Addr          string
	DBPath        string
	ContentFile   string
	TemplatesDir  string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	ThemeVariant  string
	ShutdownGrace time.Duration
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:          ":8080",
		DBPath:        "data/submissions.db",
		SessionTTL:    30 * time.Minute,
		SweepInterval: time.Minute,
		ShutdownGrace: 10 * time.Second,
	}
}

// New returns a viper instance seeded with defaults and environment lookup.
func New() *viper.Viper {
	def := Defaults()

	v := viper.New()
	v.SetDefault(KeyAddr, def.Addr)
	v.SetDefault(KeyDBPath, def.DBPath)
	v.SetDefault(KeyContentFile, def.ContentFile)
	v.SetDefault(KeyTemplatesDir, def.TemplatesDir)
	v.SetDefault(KeySessionTTL, def.SessionTTL)
	v.SetDefault(KeySweepInterval, def.SweepInterval)
	v.SetDefault(KeyThemeVariant, def.ThemeVariant)
	v.SetDefault(KeyShutdownGrace, def.ShutdownGrace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"addr":           KeyAddr,
	"db":             KeyDBPath,
	"content":        KeyContentFile,
	"templates":      KeyTemplatesDir,
	"session-ttl":    KeySessionTTL,
	"sweep-interval": KeySweepInterval,
	"theme":          KeyThemeVariant,
	"shutdown-grace": KeyShutdownGrace,
}

// BindFlags binds every flag in flags that FlagKeys knows about. Flags only
// win over other sources when set explicitly.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads file when given (it must exist) or looks for equitysite.yaml in
// the working directory (a missing file is fine), then resolves the values.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	cfg := Config{
		Addr:          v.GetString(KeyAddr),
		DBPath:        v.GetString(KeyDBPath),
		ContentFile:   v.GetString(KeyContentFile),
		TemplatesDir:  v.GetString(KeyTemplatesDir),
		SessionTTL:    v.GetDuration(KeySessionTTL),
		SweepInterval: v.GetDuration(KeySweepInterval),
		ThemeVariant:  v.GetString(KeyThemeVariant),
		ShutdownGrace: v.GetDuration(KeyShutdownGrace),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyAddr))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeySessionTTL))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeySweepInterval))
	}
	if c.ShutdownGrace < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyShutdownGrace))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
