// Package config resolves runtime settings from defaults, an optional YAML
// file and SHRAMBA_* environment variables, in that order. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig     = "SHRAMBA_CONFIG"
	EnvDB         = "SHRAMBA_DB"
	EnvLog        = "SHRAMBA_LOG"
	EnvSession    = "SHRAMBA_SESSION"
	EnvPhotos     = "SHRAMBA_PHOTOS"
	EnvLowStock   = "SHRAMBA_LOW_STOCK"
	EnvBcryptCost = "SHRAMBA_BCRYPT_COST"
)

// Config holds everything the command needs to run.
type Config struct {
	DBPath      string `yaml:"db"`
	LogPath     string `yaml:"log"`
	SessionPath string `yaml:"session"`
	PhotoDir    string `yaml:"photos"`

	// LowStock is the quantity at or below which an item triggers an alert.
	LowStock int `yaml:"low_stock"`

	BcryptCost int `yaml:"bcrypt_cost"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:      "shramba.sqlite3",
		SessionPath: defaultSessionPath(),
		PhotoDir:    "photos",
		LowStock:    0,
		BcryptCost:  bcrypt.DefaultCost,
	}
}

// Load returns the default settings overridden by a YAML file and then by
// the environment. The file is path, or SHRAMBA_CONFIG if path is empty; with
// neither set no file is read.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.SessionPath, validation.Required),
		validation.Field(&c.PhotoDir, validation.Required),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
	)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Unset keys keep their current value.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	for env, dst := range map[string]*string{
		EnvDB:      &c.DBPath,
		EnvLog:     &c.LogPath,
		EnvSession: &c.SessionPath,
		EnvPhotos:  &c.PhotoDir,
	} {
		if v := getenv(env); v != "" {
			*dst = v
		}
	}

	var errs []error
	for env, dst := range map[string]*int{
		EnvLowStock:   &c.LowStock,
		EnvBcryptCost: &c.BcryptCost,
	} {
		v := getenv(env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", env, v))
			continue
		}
		*dst = n
	}
	return errors.Join(errs...)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".shramba-session"
	}
	return filepath.Join(dir, "shramba", "session")
}
