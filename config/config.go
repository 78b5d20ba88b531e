package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/storage"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "config.yaml"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "BUCKETCTL"

// ErrReadConfig wraps every failure to open or parse the config file.
var ErrReadConfig = errors.New("read config file")

// Config is the merged configuration for a single run.
type Config struct {
	Host      string    `mapstructure:"host"`
	AccessKey string    `mapstructure:"access_key"`
	SecretKey string    `mapstructure:"secret_key"`
	Bucket    string    `mapstructure:"bucket"`
	Region    string    `mapstructure:"region" validate:"required"`
	Secure    bool      `mapstructure:"secure"`
	Provider  string    `mapstructure:"provider" validate:"required,oneof=minio s3"`
	Env       string    `mapstructure:"env"`
	Log       LogConfig `mapstructure:"log"`

	// Action selection comes from flags only. The file never supplies it.
	Upload    string `mapstructure:"-"`
	Download  bool   `mapstructure:"-"`
	ListFiles bool   `mapstructure:"-"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Action returns the operation selected for this run.
func (c *Config) Action() bucketctl.Action {
	switch {
	case c.Upload != "":
		return bucketctl.ActionUpload
	case c.Download:
		return bucketctl.ActionDownload
	case c.ListFiles:
		return bucketctl.ActionList
	default:
		return bucketctl.ActionNone
	}
}

// Storage returns the connection settings for the storage backend.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Provider:  c.Provider,
		Host:      c.Host,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Region:    c.Region,
		Secure:    c.Secure,
	}
}

// flagToViperKey maps CLI flag names to viper configuration keys.
// Flags missing from this table are never bound.
var flagToViperKey = map[string]string{
	"host":       "host",
	"access_key": "access_key",
	"secret_key": "secret_key",
	"bucket":     "bucket",
	"region":     "region",
	"provider":   "provider",
	"log-level":  "log.level",
}

// bindFlags binds explicitly set CLI flags to viper keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. Keys without
// a meaningful default are still registered so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("access_key", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("bucket", "")
	v.SetDefault("region", "us-east-1")
	v.SetDefault("secure", true)
	v.SetDefault("provider", storage.ProviderMinio)
	v.SetDefault("env", "dev")
	v.SetDefault("log.level", "warn")
}

// Load reads the YAML file at path and overlays environment variables and
// explicitly set flags. Order of precedence (highest to lowest):
// flags > env > config file > defaults
//
// Parameters:
//   - path: config file path, DefaultPath when empty. The file must exist.
//   - flags: flag set holding overrides and action flags (can be nil)
//
// A missing or malformed file returns an error wrapping ErrReadConfig.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config file
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadConfig, path, err)
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Action baseline, overridden by set flags
	cfg.Upload = ""
	cfg.Download = false
	cfg.ListFiles = false
	if flags != nil {
		applyActionFlags(&cfg, flags)
	}

	// 7. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyActionFlags copies the action flags that were explicitly set.
func applyActionFlags(cfg *Config, flags *pflag.FlagSet) {
	if f := flags.Lookup("upload"); f != nil && f.Changed {
		cfg.Upload = f.Value.String()
	}
	if f := flags.Lookup("download"); f != nil && f.Changed {
		cfg.Download, _ = flags.GetBool("download")
	}
	if f := flags.Lookup("list_files"); f != nil && f.Changed {
		cfg.ListFiles, _ = flags.GetBool("list_files")
	}
}

// File is the on-disk YAML layout written by `bucketctl init`.
type File struct {
	Host      string `yaml:"host"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region,omitempty"`
	Secure    bool   `yaml:"secure"`
	Provider  string `yaml:"provider,omitempty"`
}

// Save writes the file to path with owner-only permissions.
// Creates the parent directory if it doesn't exist.
func (f *File) Save(path string) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadFile reads the raw YAML file at path without defaults or overrides.
func LoadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrReadConfig, err)
	}

	return &f, nil
}
